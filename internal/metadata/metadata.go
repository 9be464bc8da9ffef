package metadata

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/bstardust/photo-geometa/internal/exif"
	"github.com/bstardust/photo-geometa/internal/gps"
	"github.com/bstardust/photo-geometa/internal/logger"
	"github.com/bstardust/photo-geometa/internal/orientation"
	"github.com/bstardust/photo-geometa/internal/sidecar"
)

// ErrNoPosition is returned by GPSTags when no position is known.
var ErrNoPosition = errors.New("no GPS position")

// Sources of a reconciled record.
const (
	SourceExif    = "exif"
	SourceSidecar = "sidecar"
	SourceMerged  = "exif+sidecar"
)

// Metadata represents the reconciled metadata of one image
type Metadata struct {
	Path         string                      `json:"path,omitempty"`
	Title        string                      `json:"title,omitempty"`
	Description  string                      `json:"description,omitempty"`
	Keywords     []string                    `json:"keywords,omitempty"`
	CreationTime *TimeInfo                   `json:"creationTime,omitempty"`
	GeoData      *GeoData                    `json:"geoData,omitempty"`
	Orientation  orientation.ExifOrientation `json:"orientation,omitempty"`
	CameraData   *CameraData                 `json:"cameraData,omitempty"`
	Source       string                      `json:"source,omitempty"`
	Sidecar      string                      `json:"sidecar,omitempty"`
}

// TimeInfo represents timestamp information
type TimeInfo struct {
	Timestamp string `json:"timestamp"`
	Formatted string `json:"formatted"`
}

// GeoData represents geographical data
type GeoData struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Altitude     float64 `json:"altitude,omitempty"`
	HasAltitude  bool    `json:"hasAltitude,omitempty"`
	LatitudeDMS  string  `json:"latitudeDms,omitempty"`
	LongitudeDMS string  `json:"longitudeDms,omitempty"`
}

// CameraData represents camera information
type CameraData struct {
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
}

// Extractor extracts metadata from images and their sidecars
type Extractor struct {
	timezone     *time.Location
	sidecarStyle sidecar.PathStyle
	useSidecars  bool
}

// NewExtractor creates a new metadata extractor. With useSidecars false only
// the image EXIF is read.
func NewExtractor(timezone *time.Location, style sidecar.PathStyle, useSidecars bool) *Extractor {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Extractor{
		timezone:     timezone,
		sidecarStyle: style,
		useSidecars:  useSidecars,
	}
}

// ExtractFromSidecar extracts metadata from an XMP sidecar
func (e *Extractor) ExtractFromSidecar(r io.Reader) (*Metadata, error) {
	packet, err := sidecar.Read(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read XMP sidecar: %w", err)
	}

	metadata := &Metadata{
		Title:       packet.Title(),
		Description: packet.Description(),
		Keywords:    packet.Keywords(),
		Source:      SourceSidecar,
	}

	if created, err := packet.CreateDate(); err == nil {
		metadata.CreationTime = e.timeInfo(created)
	}

	if pos, err := packet.GPS(); err == nil {
		metadata.GeoData = newGeoData(pos)
	} else if !errors.Is(err, sidecar.ErrNotPresent) {
		logger.Warn("Ignoring sidecar GPS: %v", err)
	}

	if o, err := packet.Orientation(); err == nil {
		metadata.Orientation = o
	} else if !errors.Is(err, sidecar.ErrNotPresent) {
		logger.Warn("Ignoring sidecar orientation: %v", err)
	}

	return metadata, nil
}

// ExtractFromEXIF extracts metadata from EXIF data
func (e *Extractor) ExtractFromEXIF(r io.Reader) (*Metadata, error) {
	exifData, err := exif.Extract(r)
	if err != nil {
		return nil, fmt.Errorf("failed to extract EXIF data: %w", err)
	}

	metadata := &Metadata{
		Orientation: exifData.Orientation,
		Source:      SourceExif,
	}

	// Set creation time
	if exifData.DateTime != nil {
		metadata.CreationTime = e.timeInfo(*exifData.DateTime)
	}

	// Set geo data
	if exifData.GPS != nil {
		metadata.GeoData = newGeoData(exifData.GPS)
	}

	// Set camera data
	if exifData.Make != "" || exifData.Model != "" {
		metadata.CameraData = &CameraData{
			Make:  exifData.Make,
			Model: exifData.Model,
		}
	}

	return metadata, nil
}

// ExtractFromFile extracts metadata from an image in fsys. Sidecar values
// take precedence field by field; the image EXIF fills the gaps.
func (e *Extractor) ExtractFromFile(fsys fs.FS, name string) (*Metadata, error) {
	var metadata *Metadata

	if e.useSidecars {
		if sidecarPath, ok := sidecar.Find(fsys, name, e.sidecarStyle); ok {
			metadata = e.extractSidecarFile(fsys, sidecarPath)
		}
	}

	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	exifMetadata, err := e.ExtractFromEXIF(file)
	switch {
	case err != nil:
		logger.Debug("No EXIF data in %s: %v", name, err)
	case metadata == nil:
		metadata = exifMetadata
	default:
		e.mergeMetadata(metadata, exifMetadata)
		metadata.Source = SourceMerged
	}

	if metadata == nil {
		metadata = &Metadata{}
	}
	metadata.Path = name

	// Set title from filename if not set
	if metadata.Title == "" {
		metadata.Title = path.Base(name)
	}

	return metadata, nil
}

func (e *Extractor) extractSidecarFile(fsys fs.FS, name string) *Metadata {
	f, err := fsys.Open(name)
	if err != nil {
		logger.Warn("Failed to open sidecar %s: %v", name, err)
		return nil
	}
	defer f.Close()

	metadata, err := e.ExtractFromSidecar(f)
	if err != nil {
		logger.Warn("Failed to extract metadata from sidecar %s: %v", name, err)
		return nil
	}
	metadata.Sidecar = name
	return metadata
}

// mergeMetadata fills the empty fields of target from source
func (e *Extractor) mergeMetadata(target, source *Metadata) {
	if target.Title == "" {
		target.Title = source.Title
	}
	if target.Description == "" {
		target.Description = source.Description
	}
	if len(target.Keywords) == 0 {
		target.Keywords = source.Keywords
	}
	if target.CreationTime == nil {
		target.CreationTime = source.CreationTime
	}
	if target.GeoData == nil {
		target.GeoData = source.GeoData
	}
	if target.Orientation == orientation.Unspecified {
		target.Orientation = source.Orientation
	}
	if target.CameraData == nil {
		target.CameraData = source.CameraData
	}
}

func (e *Extractor) timeInfo(t time.Time) *TimeInfo {
	return &TimeInfo{
		Timestamp: strconv.FormatInt(t.Unix(), 10),
		Formatted: t.In(e.timezone).Format(time.RFC3339),
	}
}

func newGeoData(p *gps.Position) *GeoData {
	g := &GeoData{
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Altitude:    p.Altitude,
		HasAltitude: p.HasAltitude,
	}
	if dms, err := gps.DegreesToDMS(true, p.Latitude); err == nil {
		g.LatitudeDMS = dms.String()
	}
	if dms, err := gps.DegreesToDMS(false, p.Longitude); err == nil {
		g.LongitudeDMS = dms.String()
	}
	return g
}

// Position returns the GPS position, if any.
func (m *Metadata) Position() (gps.Position, bool) {
	if m.GeoData == nil {
		return gps.Position{}, false
	}
	return gps.Position{
		Latitude:    m.GeoData.Latitude,
		Longitude:   m.GeoData.Longitude,
		Altitude:    m.GeoData.Altitude,
		HasAltitude: m.GeoData.HasAltitude,
	}, true
}

// GPSTags returns the EXIF and XMP tag values for the stored position.
func (m *Metadata) GPSTags(prec gps.Precision) (map[string]string, error) {
	pos, ok := m.Position()
	if !ok {
		return nil, ErrNoPosition
	}
	return gps.TagSet(pos, prec)
}

// Rotate applies a user action on top of the stored orientation, stores the
// resulting EXIF value and returns the lossless operations that turn the
// stored pixels into the displayed image.
func (m *Metadata) Rotate(a orientation.Action) []orientation.Action {
	current := orientation.FromExif(m.Orientation)
	current.Compose(orientation.FromAction(a))
	m.Orientation = current.Exif()
	return current.Actions()
}

// ToMap flattens metadata to string pairs for text reports and S3 object
// metadata
func (m *Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	if m.Path != "" {
		result["path"] = m.Path
	}
	if m.Title != "" {
		result["title"] = m.Title
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if len(m.Keywords) > 0 {
		result["keywords"] = strings.Join(m.Keywords, ",")
	}
	if m.CreationTime != nil {
		result["creation-time"] = m.CreationTime.Timestamp
		result["creation-time-formatted"] = m.CreationTime.Formatted
	}
	if m.GeoData != nil {
		result["geo-latitude"] = fmt.Sprintf("%f", m.GeoData.Latitude)
		result["geo-longitude"] = fmt.Sprintf("%f", m.GeoData.Longitude)
		if m.GeoData.HasAltitude {
			result["geo-altitude"] = fmt.Sprintf("%f", m.GeoData.Altitude)
		}
		if lat, err := gps.CoordinateToString(true, m.GeoData.Latitude); err == nil {
			result["geo-latitude-xmp"] = lat
		}
		if lon, err := gps.CoordinateToString(false, m.GeoData.Longitude); err == nil {
			result["geo-longitude-xmp"] = lon
		}
	}
	if m.Orientation != orientation.Unspecified {
		result["orientation"] = strconv.Itoa(int(m.Orientation))
		result["orientation-name"] = m.Orientation.String()
	}
	if m.CameraData != nil {
		if m.CameraData.Make != "" {
			result["camera-make"] = m.CameraData.Make
		}
		if m.CameraData.Model != "" {
			result["camera-model"] = m.CameraData.Model
		}
	}
	if m.Source != "" {
		result["source"] = m.Source
	}
	if m.Sidecar != "" {
		result["sidecar"] = m.Sidecar
	}

	return result
}
