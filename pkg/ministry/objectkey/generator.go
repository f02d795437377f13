package objectkey

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator defines the interface for upload key generation strategies
type Generator interface {
	// GenerateKey creates a storage key for a file uploaded as originalName at time at
	GenerateKey(originalName string, at time.Time) string
}

// TimestampGenerator names uploads after the upload time in milliseconds,
// keeping the original extension: 1697040000123.jpg. Two uploads within the
// same millisecond collide.
type TimestampGenerator struct{}

func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{}
}

func (g *TimestampGenerator) GenerateKey(originalName string, at time.Time) string {
	return fmt.Sprintf("%d%s", at.UnixMilli(), Extension(originalName))
}

// UniqueGenerator adds a random suffix to the millisecond timestamp:
// 1697040000123-3f9a1c2b.jpg
type UniqueGenerator struct {
	// SuffixLength controls how many hex characters of randomness are added (default: 8)
	SuffixLength int
}

func NewUniqueGenerator() *UniqueGenerator {
	return &UniqueGenerator{
		SuffixLength: 8,
	}
}

func (g *UniqueGenerator) GenerateKey(originalName string, at time.Time) string {
	random := strings.ReplaceAll(uuid.New().String(), "-", "")

	n := g.SuffixLength
	if n <= 0 || n > len(random) {
		n = len(random)
	}

	return fmt.Sprintf("%d-%s%s", at.UnixMilli(), random[:n], Extension(originalName))
}

// CustomFuncGenerator allows users to provide their own key generation function
type CustomFuncGenerator struct {
	GenerateFunc func(originalName string, at time.Time) string
}

func NewCustomFuncGenerator(fn func(originalName string, at time.Time) string) *CustomFuncGenerator {
	return &CustomFuncGenerator{
		GenerateFunc: fn,
	}
}

func (g *CustomFuncGenerator) GenerateKey(originalName string, at time.Time) string {
	return g.GenerateFunc(originalName, at)
}

// Extension returns the lowercased extension of name including the dot, or
// an empty string. Characters outside [a-z0-9] are dropped.
func Extension(name string) string {
	ext := strings.ToLower(filepath.Ext(sanitizeFilename(name)))
	if ext == "" {
		return ""
	}

	var b strings.Builder
	b.WriteByte('.')
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 1 {
		return ""
	}
	return b.String()
}

func sanitizeFilename(filename string) string {
	// Replace problematic characters for filesystem compatibility
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(filename)
}

// NewRecommendedGenerator returns the recommended generator for new installations
func NewRecommendedGenerator() Generator {
	return NewUniqueGenerator()
}
