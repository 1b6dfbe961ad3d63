// src/services/municipio_service.go
package services

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/username/repasses/src/logger"
	"github.com/username/repasses/src/models"
	"github.com/username/repasses/src/security/validation"
)

const (
	// MinSearchQueryLength is the shortest query accepted by Search, in characters.
	MinSearchQueryLength = 2
	// MaxSearchResults caps the number of records returned by Search.
	MaxSearchResults = 10
)

// MunicipalityDirectory is the read-only municipality list. It is built once at startup
// and is safe for concurrent readers.
type MunicipalityDirectory struct {
	records    []models.Municipality
	lowerNames []string
}

// NewMunicipalityDirectory keeps records in the given order.
func NewMunicipalityDirectory(records []models.Municipality) *MunicipalityDirectory {
	d := &MunicipalityDirectory{
		records:    make([]models.Municipality, len(records)),
		lowerNames: make([]string, len(records)),
	}
	copy(d.records, records)
	for i, record := range d.records {
		d.lowerNames[i] = strings.ToLower(record.Municipio)
	}
	return d
}

// LoadMunicipalityDirectory reads a JSON array of {codigo, municipio, uf} records from filePath.
func LoadMunicipalityDirectory(filePath string) (*MunicipalityDirectory, error) {
	logger.L.Info("Loading municipality data", "path", filePath)

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read municipality data file '%s'", filePath)
	}

	var records []models.Municipality
	if err := json.Unmarshal(fileData, &records); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal municipality data from '%s'", filePath)
	}

	logger.L.Info("Municipality data loaded successfully.", "path", filePath, "municipalityCount", len(records))
	return NewMunicipalityDirectory(records), nil
}

// Search returns up to MaxSearchResults records whose name contains query, ignoring case,
// in the order they appear in the source list.
func (d *MunicipalityDirectory) Search(query string) ([]models.Municipality, error) {
	trimmed := strings.TrimSpace(query)
	if err := validation.ValidateStringMinLength(trimmed, MinSearchQueryLength, "q"); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrMunicipalityDataNotLoaded
	}

	needle := strings.ToLower(trimmed)
	matches := []models.Municipality{}
	for i, name := range d.lowerNames {
		if strings.Contains(name, needle) {
			matches = append(matches, d.records[i])
			if len(matches) == MaxSearchResults {
				break
			}
		}
	}
	return matches, nil
}

// Count returns the number of loaded records.
func (d *MunicipalityDirectory) Count() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}
