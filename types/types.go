package types

// CommandFormat identifies which historical layout an embedded command string uses
type CommandFormat int

const (
	// FormatUnknown means the command string matched neither known layout
	FormatUnknown CommandFormat = iota
	// FormatLegacy is the older `--prompt "..." --W ...` layout
	FormatLegacy
	// FormatCurrent is the newer `"..." --W ...` layout
	FormatCurrent
)

// String returns a short name for the format
func (f CommandFormat) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// ImageMetadata is the raw embedded text and pixel size read from one image
type ImageMetadata struct {
	Command     string
	UpscaleText string
	Width       int
	Height      int
}

// DecodedRecord holds the generation settings recovered from one image
type DecodedRecord struct {
	Prompt string        `json:"prompt"`
	Format CommandFormat `json:"format"`

	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Inferred bool `json:"inferred"` // size came from pixel dimensions

	Steps string `json:"steps"`
	Scale string `json:"scale"`

	UpscaleUsed        bool   `json:"upscale_used"`
	UpscaleFactor      string `json:"upscale_factor"` // annotation text, "no" when absent
	UpscaleAmount      string `json:"upscale_amount"`
	UpscaleFaceEnhance bool   `json:"upscale_face_enhance"`

	InitImage     string `json:"init_image"`      // as embedded in the command
	InitImagePath string `json:"init_image_path"` // normalized absolute path
	InitStrength  string `json:"init_strength"`
}

// HasInitImage reports whether the record references a source image
func (r DecodedRecord) HasInitImage() bool {
	return r.InitImage != ""
}

// OverrideConfig holds batch-wide values that replace per-record settings in the prompt file
type OverrideConfig struct {
	Width              string
	Height             string
	Steps              string
	Scale              string
	UseUpscale         string // "yes", "no" or empty
	UpscaleAmount      string
	UpscaleFaceEnhance string // "yes", "no" or empty
	IgnoreInputImages  bool
}

// HasSize reports whether both dimensions are overridden
func (o OverrideConfig) HasSize() bool {
	return o.Width != "" && o.Height != ""
}

// Any reports whether at least one directive override is set
func (o OverrideConfig) Any() bool {
	return o.HasSize() || o.Steps != "" || o.Scale != "" || o.UseUpscale != "" ||
		o.UpscaleAmount != "" || o.UpscaleFaceEnhance != ""
}

// CatalogEntry is one decoded image as stored in the catalog database
type CatalogEntry struct {
	Path       string        `json:"path"`
	PromptFile string        `json:"prompt_file"`
	ScannedAt  string        `json:"scanned_at"`
	Record     DecodedRecord `json:"record"`
}
