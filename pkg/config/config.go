package config

import "time"

// Config is the root configuration for a pipeline run.
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Tokenizer  TokenizerConfig  `yaml:"tokenizer"`
	Vocab      VocabConfig      `yaml:"vocab"`
	Translate  TranslateConfig  `yaml:"translate"`
	Jisho      JishoConfig      `yaml:"jisho"`
	Media      MediaConfig      `yaml:"media"`
	Merge      MergeConfig      `yaml:"merge"`
	Library    LibraryConfig    `yaml:"library"`
	Log        LogConfig        `yaml:"log"`
}

// PathsConfig holds every file and directory the pipeline reads or writes.
type PathsConfig struct {
	Transcripts     string `yaml:"transcripts"      env:"ANIMEDECK_TRANSCRIPTS"      env-default:"Transcripts"`
	Videos          string `yaml:"videos"           env:"ANIMEDECK_VIDEOS"           env-default:"shows"`
	Media           string `yaml:"media"            env:"ANIMEDECK_MEDIA"            env-default:"out/anki/media"`
	Decks           string `yaml:"decks"            env:"ANIMEDECK_DECKS"            env-default:"out/anki"`
	Tables          string `yaml:"tables"           env:"ANIMEDECK_TABLES"           env-default:"out/csv"`
	Cache           string `yaml:"cache"            env:"ANIMEDECK_CACHE"            env-default:"cache"`
	DefinitionCache string `yaml:"definition_cache" env:"ANIMEDECK_DEFINITION_CACHE" env-default:"dict.csv"`
	Names           string `yaml:"names"            env:"ANIMEDECK_NAMES"            env-default:"names.json"`
	Levels          string `yaml:"levels"           env:"ANIMEDECK_LEVELS"           env-default:"JLPTWords.json"`
	Exclusions      string `yaml:"exclusions"       env:"ANIMEDECK_EXCLUSIONS"       env-default:"core lists/1.5K.json"`
	ManualFixes     string `yaml:"manual_fixes"     env:"ANIMEDECK_MANUAL_FIXES"`
}

// DictionaryConfig selects the bundled lexicon.
type DictionaryConfig struct {
	Path         string `yaml:"path"          env:"DICT_PATH"          env-default:"jmdict-eng-common.json"`
	Format       string `yaml:"format"        env:"DICT_FORMAT"        env-default:"json"`
	AutoDownload bool   `yaml:"auto_download" env:"DICT_AUTO_DOWNLOAD" env-default:"true"`
}

// TokenizerConfig selects the kagome segmentation mode.
type TokenizerConfig struct {
	Mode string `yaml:"mode" env:"TOKENIZER_MODE" env-default:"normal"`
}

// VocabConfig controls which words are promoted to the exported list.
type VocabConfig struct {
	MinFrequency int `yaml:"min_frequency" env:"VOCAB_MIN_FREQUENCY" env-default:"2"`
}

// TranslateConfig configures the sentence translation backend.
type TranslateConfig struct {
	Provider  string        `yaml:"provider"   env:"TRANSLATE_PROVIDER"   env-default:"google"`
	BatchSize int           `yaml:"batch_size" env:"TRANSLATE_BATCH_SIZE" env-default:"20"`
	Delay     time.Duration `yaml:"delay"      env:"TRANSLATE_DELAY"      env-default:"600ms"`
	Timeout   time.Duration `yaml:"timeout"    env:"TRANSLATE_TIMEOUT"    env-default:"30s"`
	Source    string        `yaml:"source"     env:"TRANSLATE_SOURCE"     env-default:"ja"`
	Target    string        `yaml:"target"     env:"TRANSLATE_TARGET"     env-default:"en"`
	APIKey    string        `yaml:"api_key"    env:"TRANSLATE_API_KEY"`
	Model     string        `yaml:"model"      env:"TRANSLATE_MODEL"`
	BaseURL   string        `yaml:"base_url"   env:"TRANSLATE_BASE_URL"`
}

// JishoConfig configures the online dictionary fallback.
type JishoConfig struct {
	Enabled bool          `yaml:"enabled"  env:"JISHO_ENABLED"  env-default:"true"`
	BaseURL string        `yaml:"base_url" env:"JISHO_BASE_URL" env-default:"https://jisho.org/api/v1/search/words"`
	Timeout time.Duration `yaml:"timeout"  env:"JISHO_TIMEOUT"  env-default:"10s"`
}

// MediaConfig configures screenshot and audio generation.
type MediaConfig struct {
	Screenshots bool   `yaml:"screenshots"  env:"MEDIA_SCREENSHOTS"  env-default:"true"`
	Audio       bool   `yaml:"audio"        env:"MEDIA_AUDIO"        env-default:"true"`
	Voice       string `yaml:"voice"        env:"MEDIA_VOICE"        env-default:"ja-JP-NanamiNeural"`
	FFmpeg      string `yaml:"ffmpeg"       env:"MEDIA_FFMPEG"       env-default:"ffmpeg"`
	EdgeTTS     string `yaml:"edge_tts"     env:"MEDIA_EDGE_TTS"     env-default:"edge-tts"`
	Width       int    `yaml:"width"        env:"MEDIA_WIDTH"        env-default:"854"`
	Height      int    `yaml:"height"       env:"MEDIA_HEIGHT"       env-default:"480"`
	Workers     int    `yaml:"workers"      env:"MEDIA_WORKERS"      env-default:"1"`
}

// MergeConfig configures representative-row selection for the mega deck.
type MergeConfig struct {
	TieBreak string `yaml:"tie_break" env:"MERGE_TIE_BREAK" env-default:"deterministic"`
	Seed     int64  `yaml:"seed"      env:"MERGE_SEED"      env-default:"0"`
	DeckName string `yaml:"deck_name" env:"MERGE_DECK_NAME" env-default:"Anime Mega Deck"`
}

// LibraryConfig points at the SQLite vocabulary library.
type LibraryConfig struct {
	Enabled bool   `yaml:"enabled" env:"LIBRARY_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"LIBRARY_PATH"    env-default:"animedeck.db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
