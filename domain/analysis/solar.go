package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// Mounting places accepted by the PV estimation backend
const (
	MountingFree     = "free"
	MountingBuilding = "building"
)

// SolarParameters describes the PV installation submitted with a
// consumption file.
type SolarParameters struct {
	Location      string  `json:"location"`
	PeakPower     float64 `json:"peakpower"`
	MountingPlace string  `json:"mountingplace"`
	Loss          float64 `json:"loss"`
	Angle         float64 `json:"angle"`
	Aspect        float64 `json:"aspect"`
}

// FieldError reports a single invalid form field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseSolarParameters reads the solar form fields. lookup returns the raw
// value of a field, typically (*http.Request).FormValue.
func ParseSolarParameters(lookup func(string) string) (SolarParameters, error) {
	var p SolarParameters
	p.Location = strings.TrimSpace(lookup("location"))
	p.MountingPlace = strings.ToLower(strings.TrimSpace(lookup("mountingplace")))

	numbers := []struct {
		field string
		dst   *float64
	}{
		{"peakpower", &p.PeakPower},
		{"loss", &p.Loss},
		{"angle", &p.Angle},
		{"aspect", &p.Aspect},
	}
	for _, n := range numbers {
		raw := strings.TrimSpace(lookup(n.field))
		if raw == "" {
			return p, &FieldError{Field: n.field, Message: "is required"}
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return p, &FieldError{Field: n.field, Message: "must be a number"}
		}
		*n.dst = v
	}

	return p, p.Validate()
}

// Validate checks the parameters against the ranges the backend accepts
func (p SolarParameters) Validate() error {
	if p.Location == "" {
		return &FieldError{Field: "location", Message: "is required"}
	}
	if p.PeakPower <= 0 {
		return &FieldError{Field: "peakpower", Message: "must be greater than 0"}
	}
	if p.MountingPlace != MountingFree && p.MountingPlace != MountingBuilding {
		return &FieldError{Field: "mountingplace", Message: `must be "free" or "building"`}
	}
	if p.Loss < 0 || p.Loss > 100 {
		return &FieldError{Field: "loss", Message: "must be between 0 and 100"}
	}
	if p.Angle < 0 || p.Angle > 90 {
		return &FieldError{Field: "angle", Message: "must be between 0 and 90"}
	}
	if p.Aspect < -180 || p.Aspect > 180 {
		return &FieldError{Field: "aspect", Message: "must be between -180 and 180"}
	}
	return nil
}

// FormFields returns the parameters as multipart form fields, in the order
// the service documents them.
func (p SolarParameters) FormFields() [][2]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return [][2]string{
		{"location", p.Location},
		{"peakpower", f(p.PeakPower)},
		{"mountingplace", p.MountingPlace},
		{"loss", f(p.Loss)},
		{"angle", f(p.Angle)},
		{"aspect", f(p.Aspect)},
	}
}
