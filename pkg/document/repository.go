// Package document provides repository pattern for rendered invoice files.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkrish/invoice-assistant/pkg/pathutil"
)

// Repository defines the interface for invoice file operations.
type Repository interface {
	// WriteInvoice writes the rendered invoice for a month, replacing
	// any previous version. Returns the file path.
	WriteInvoice(yearMonth, content string) (string, error)

	// ReadInvoice reads the rendered invoice for a month
	ReadInvoice(yearMonth string) (string, error)

	// InvoiceExists checks if an invoice file exists for a month
	InvoiceExists(yearMonth string) bool

	// GetInvoiceMonthsInYear gets all months with an invoice in a year
	GetInvoiceMonthsInYear(year string) ([]string, error)
}

// FileSystemRepository is a file system implementation of Repository.
type FileSystemRepository struct {
	pathResolver *pathutil.PathResolver
}

// NewFileSystemRepository creates a new FileSystemRepository.
func NewFileSystemRepository(pathResolver *pathutil.PathResolver) *FileSystemRepository {
	return &FileSystemRepository{
		pathResolver: pathResolver,
	}
}

// WriteInvoice writes the rendered invoice for a month.
// An invoice is regenerated as a whole, so the file is replaced rather
// than appended to.
func (r *FileSystemRepository) WriteInvoice(yearMonth, content string) (string, error) {
	filePath, err := r.pathResolver.GetInvoicePath(yearMonth)
	if err != nil {
		return "", fmt.Errorf("failed to get invoice path: %w", err)
	}

	if err := r.pathResolver.EnsureParentDir(filePath); err != nil {
		return "", fmt.Errorf("failed to ensure parent directory: %w", err)
	}

	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write invoice file: %w", err)
	}

	return filePath, nil
}

// ReadInvoice reads the rendered invoice for a month.
// Returns empty string if the file doesn't exist.
func (r *FileSystemRepository) ReadInvoice(yearMonth string) (string, error) {
	filePath, err := r.pathResolver.GetInvoicePath(yearMonth)
	if err != nil {
		return "", fmt.Errorf("failed to get invoice path: %w", err)
	}

	if !r.pathResolver.FileExists(filePath) {
		return "", nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read invoice file: %w", err)
	}

	return string(data), nil
}

// InvoiceExists checks if an invoice file exists for a month.
func (r *FileSystemRepository) InvoiceExists(yearMonth string) bool {
	filePath, err := r.pathResolver.GetInvoicePath(yearMonth)
	if err != nil {
		return false
	}

	return r.pathResolver.FileExists(filePath)
}

// GetInvoiceMonthsInYear gets all months with an invoice in a year.
// Returns a slice of year-month strings (e.g., ["2024-01", "2024-02"]).
func (r *FileSystemRepository) GetInvoiceMonthsInYear(year string) ([]string, error) {
	yearDir := r.pathResolver.GetInvoiceYearDir(year)
	if !r.pathResolver.FileExists(yearDir) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(yearDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read year directory: %w", err)
	}

	var months []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "invoice_") && filepath.Ext(name) == ".txt" {
			// invoice_YYYY-MM.txt -> YYYY-MM
			month := strings.TrimSuffix(strings.TrimPrefix(name, "invoice_"), ".txt")
			months = append(months, month)
		}
	}

	return months, nil
}
