package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	translateProviders = []string{"google", "anthropic", "openai", "none"}
	tokenizerModes     = []string{"normal", "search", "extended"}
	dictionaryFormats  = []string{"json", "xml"}
	tieBreaks          = []string{"deterministic", "random"}
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	if !slices.Contains(translateProviders, c.Translate.Provider) {
		return fmt.Errorf("translate.provider must be one of %v (got %q)", translateProviders, c.Translate.Provider)
	}
	if c.Translate.BatchSize <= 0 {
		return fmt.Errorf("translate.batch_size must be > 0 (got %d)", c.Translate.BatchSize)
	}
	if c.Translate.Delay < 0 {
		return fmt.Errorf("translate.delay must be >= 0 (got %s)", c.Translate.Delay)
	}
	if (c.Translate.Provider == "anthropic" || c.Translate.Provider == "openai") && c.Translate.APIKey == "" {
		return fmt.Errorf("translate.api_key is required for provider %q", c.Translate.Provider)
	}

	c.Tokenizer.Mode = strings.ToLower(strings.TrimSpace(c.Tokenizer.Mode))
	if !slices.Contains(tokenizerModes, c.Tokenizer.Mode) {
		return fmt.Errorf("tokenizer.mode must be one of %v (got %q)", tokenizerModes, c.Tokenizer.Mode)
	}

	c.Dictionary.Format = strings.ToLower(strings.TrimSpace(c.Dictionary.Format))
	if !slices.Contains(dictionaryFormats, c.Dictionary.Format) {
		return fmt.Errorf("dictionary.format must be one of %v (got %q)", dictionaryFormats, c.Dictionary.Format)
	}
	if c.Dictionary.Path == "" {
		return fmt.Errorf("dictionary.path is required")
	}

	if c.Vocab.MinFrequency < 1 {
		return fmt.Errorf("vocab.min_frequency must be >= 1 (got %d)", c.Vocab.MinFrequency)
	}

	if c.Media.Width <= 0 || c.Media.Height <= 0 {
		return fmt.Errorf("media: screenshot size must be positive (got %dx%d)", c.Media.Width, c.Media.Height)
	}
	if c.Media.Workers < 1 {
		c.Media.Workers = 1
	}

	c.Merge.TieBreak = strings.ToLower(strings.TrimSpace(c.Merge.TieBreak))
	if !slices.Contains(tieBreaks, c.Merge.TieBreak) {
		return fmt.Errorf("merge.tie_break must be one of %v (got %q)", tieBreaks, c.Merge.TieBreak)
	}

	return nil
}
