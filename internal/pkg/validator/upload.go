package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/futig/practice-analyzer/internal/config"
	"github.com/futig/practice-analyzer/internal/entity"
)

const mib = 1024 * 1024

// Validator enforces upload limits. It is safe for concurrent use; per-request
// running totals live in a Budget.
type Validator struct {
	cfg     config.FileUploadConfig
	allowed map[string]struct{}
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimSpace(ext))] = struct{}{}
	}
	return &Validator{cfg: cfg, allowed: allowed}
}

// RequireFiles rejects a request without file parts.
func (v *Validator) RequireFiles(files []entity.UploadedFile) error {
	if len(files) == 0 {
		return entity.NewUploadError(entity.ErrNoFiles, "Upload at least one text file.")
	}
	return nil
}

// ValidateCount checks the number of uploaded parts.
func (v *Validator) ValidateCount(files []entity.UploadedFile) error {
	if len(files) > v.cfg.MaxFileCount {
		return entity.NewUploadError(entity.ErrTooManyFiles, "Too many files. Max allowed is %d.", v.cfg.MaxFileCount)
	}
	return nil
}

// CheckExtension returns the lower-cased extension of filename. Files without
// an extension are accepted and read as text.
func (v *Validator) CheckExtension(filename string) (string, error) {
	ext := Extension(filename)
	if ext == "" {
		return "", nil
	}
	if _, ok := v.allowed[ext]; !ok {
		return "", entity.NewUploadError(entity.ErrInvalidExtension,
			"Unsupported file extension for '%s'. Allowed: %s", filename, strings.Join(v.cfg.AllowedExtensions, ", "))
	}
	return ext, nil
}

// NewBudget starts the running totals for one request.
func (v *Validator) NewBudget() *Budget {
	return &Budget{cfg: v.cfg}
}

// Budget tracks the aggregate image bytes and text characters of one request.
type Budget struct {
	cfg        config.FileUploadConfig
	imageBytes int64
	chars      int
}

// AddImage accounts for an image of size bytes.
func (b *Budget) AddImage(filename string, size int64) error {
	if size > b.cfg.MaxImageBytesPerFile {
		return entity.NewUploadError(entity.ErrFileTooLarge,
			"'%s' exceeds %dMB image limit.", filename, b.cfg.MaxImageBytesPerFile/mib)
	}
	b.imageBytes += size
	if b.imageBytes > b.cfg.MaxTotalImageBytes {
		return entity.NewUploadError(entity.ErrTotalSizeTooLarge,
			"Total image upload size exceeds %dMB.", b.cfg.MaxTotalImageBytes/mib)
	}
	return nil
}

// AddText truncates text to the per-file limit and accounts for it. Lengths
// are counted in code points.
func (b *Budget) AddText(text string) (string, error) {
	text = TruncateRunes(text, b.cfg.MaxCharsPerFile)
	b.chars += utf8.RuneCountInString(text)
	if b.chars > b.cfg.MaxTotalChars {
		return "", entity.NewUploadError(entity.ErrTextTooLarge,
			"Uploaded text content is too large. Keep total text characters under %d.", b.cfg.MaxTotalChars)
	}
	return text, nil
}

// Chars reports the characters accounted so far.
func (b *Budget) Chars() int { return b.chars }

// ImageBytes reports the image bytes accounted so far.
func (b *Budget) ImageBytes() int64 { return b.imageBytes }

// Extension returns the lower-cased extension including the dot. Leading dots
// of the base name do not start an extension, so ".env" has none.
func Extension(filename string) string {
	name := strings.ToLower(filename)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	base := strings.TrimLeft(name, ".")
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return base[i:]
}

// TruncateRunes cuts s to at most n code points.
func TruncateRunes(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// SanitizeFilename strips directories and characters unsafe in
// Content-Disposition headers.
func SanitizeFilename(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	replacer := strings.NewReplacer(
		" ", "_",
		"\"", "",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
		"\r", "",
		"\n", "",
	)
	return replacer.Replace(filename)
}
