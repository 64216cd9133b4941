package summarizer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prompts holds the two prompt templates the engine uses. Each template must
// contain exactly one %s verb for the URL or article body.
type Prompts struct {
	URLSummary     string `yaml:"url_summary"`
	ContentSummary string `yaml:"content_summary"`
}

func DefaultPrompts() Prompts {
	return Prompts{
		URLSummary:     "Rangkum artikel dari url berikut: %s",
		ContentSummary: "Rangkum artikel berikut: %s",
	}
}

// LoadPrompts reads a YAML prompts file. Missing fields keep their defaults.
func LoadPrompts(r io.Reader) (*Prompts, error) {
	p := DefaultPrompts()
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode prompts: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func LoadPromptsFile(path string) (*Prompts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompts file: %w", err)
	}
	defer f.Close()
	return LoadPrompts(f)
}

func (p Prompts) Validate() error {
	for name, tmpl := range map[string]string{
		"url_summary":     p.URLSummary,
		"content_summary": p.ContentSummary,
	} {
		if strings.Count(tmpl, "%s") != 1 {
			return fmt.Errorf("prompt template %q must contain exactly one %%s", name)
		}
	}
	return nil
}

func (p Prompts) ForURL(url string) string {
	return fmt.Sprintf(p.URLSummary, url)
}

func (p Prompts) ForContent(body string) string {
	return fmt.Sprintf(p.ContentSummary, body)
}
