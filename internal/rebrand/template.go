package rebrand

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Region is a rectangle in page space: origin at the lower left corner of
// the page, units in points.
type Region struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// pad grows the region outward by p points on every side.
func (r Region) pad(p float64) Region {
	return Region{X: r.X - p, Y: r.Y - p, W: r.W + 2*p, H: r.H + 2*p}
}

// LogoBox anchors the partner logo on the title page. X and Y place the
// lower left corner of the scaled image, MaxWidth and MaxHeight bound it.
type LogoBox struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	MaxWidth  float64 `yaml:"maxWidth"`
	MaxHeight float64 `yaml:"maxHeight"`
}

// FooterText places the baseline of the rewritten footer line.
type FooterText struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Size float64 `yaml:"size"`
}

// Template fixes every page coordinate the pipeline draws at. The
// defaults describe the A4 portrait report layout; deviating source
// layouts need their own template file, there is no content analysis
// that would locate the regions automatically.
type Template struct {
	// TitleBrand covers the original brand block on the title page.
	TitleBrand Region `yaml:"titleBrand"`
	// TitleContact covers the original contact block on the title page.
	TitleContact Region `yaml:"titleContact"`
	// PageHeader covers the running header on every page after the first.
	PageHeader Region `yaml:"pageHeader"`
	// Footer covers the original footer line on every page after the first.
	Footer Region `yaml:"footer"`

	Logo       LogoBox    `yaml:"logo"`
	FooterText FooterText `yaml:"footerText"`

	// DatePage is the 1-based page whose text carries the report date.
	DatePage int `yaml:"datePage"`
	// DateLabel, when set, prefers the first date after this label over
	// the first date on the page.
	DateLabel string `yaml:"dateLabel"`

	FilenamePrefix string `yaml:"filenamePrefix"`
}

// DefaultTemplate returns the layout of the standard survey report:
// A4 portrait, 595.28 x 841.89 points.
func DefaultTemplate() Template {
	return Template{
		TitleBrand:   Region{X: 40, Y: 756, W: 515, H: 60},
		TitleContact: Region{X: 40, Y: 90, W: 260, H: 110},
		PageHeader:   Region{X: 400, Y: 780, W: 155, H: 42},
		Footer:       Region{X: 40, Y: 28, W: 515, H: 30},
		Logo:         LogoBox{X: 385, Y: 762, MaxWidth: 170, MaxHeight: 48},
		FooterText:   FooterText{X: 40, Y: 36, Size: 8},
		DatePage:     2,

		FilenamePrefix: "Beweissicherungsbericht",
	}
}

// LoadTemplate reads a YAML template file. Fields missing from the file
// keep their default values.
func LoadTemplate(path string) (Template, error) {
	t := DefaultTemplate()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, errors.Wrap(err, "read template")
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, errors.Wrap(err, "parse template")
	}
	if err := t.validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Template) validate() error {
	for _, r := range []struct {
		name string
		reg  Region
	}{
		{"titleBrand", t.TitleBrand},
		{"titleContact", t.TitleContact},
		{"pageHeader", t.PageHeader},
		{"footer", t.Footer},
	} {
		if r.reg.W <= 0 || r.reg.H <= 0 {
			return errors.Errorf("template region %s: width and height must be positive", r.name)
		}
	}
	if t.Logo.MaxWidth <= 0 || t.Logo.MaxHeight <= 0 {
		return errors.New("template logo box: maxWidth and maxHeight must be positive")
	}
	if t.FooterText.Size <= 0 {
		return errors.New("template footer text: size must be positive")
	}
	if t.DatePage < 1 {
		return errors.New("template datePage: must be 1 or greater")
	}
	if t.FilenamePrefix == "" {
		return errors.New("template filenamePrefix: must not be empty")
	}
	return nil
}
