package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studytrace/backend/internal/domain/dataset"
	"github.com/studytrace/backend/internal/events"
	"github.com/studytrace/backend/internal/infrastructure/monitoring"
	"github.com/studytrace/backend/internal/shared/id"
)

// Exporter renders the accumulated dataset as a CSV download
type Exporter struct {
	handlers *Handlers
	bus      *events.Bus
	metrics  *monitoring.Metrics
}

// NewExporter creates the export handler
func NewExporter(handlers *Handlers, bus *events.Bus, metrics *monitoring.Metrics) *Exporter {
	return &Exporter{
		handlers: handlers,
		bus:      bus,
		metrics:  metrics,
	}
}

// ExportCSV streams the full dataset as a CSV attachment. An empty
// dataset is a conflict, not an empty file.
func (e *Exporter) ExportCSV(c *gin.Context) {
	points, err := e.handlers.records.Dataset()
	if err != nil {
		e.fail(c, http.StatusInternalServerError, err)
		return
	}

	csv, err := dataset.ExportCSV(points)
	if err != nil {
		if errors.Is(err, dataset.ErrNoData) {
			e.fail(c, http.StatusConflict, err)
			return
		}
		e.fail(c, http.StatusInternalServerError, err)
		return
	}

	exportID := id.NewExportID()
	filename := fmt.Sprintf("study-dataset-%s.csv", exportID.String())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))

	if e.metrics != nil {
		e.metrics.RecordExport("success")
	}
	if e.bus != nil {
		e.bus.Publish(events.ExportCompleted, map[string]any{
			"export_id": exportID.String(),
			"rows":      len(points),
		})
	}
}

func (e *Exporter) fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
	if e.metrics != nil {
		e.metrics.RecordExport("failure")
	}
	if e.bus != nil {
		e.bus.Publish(events.ExportFailed, map[string]any{"error": err.Error()})
	}
}
