package pharmacy

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/importer"
	"github.com/hms/hms/internal/platform/spreadsheet"
	"github.com/hms/hms/pkg/pagination"
)

// masterRoutes maps URL segments to master kinds.
var masterRoutes = map[string]string{
	"categories": MasterCategory,
	"companies":  MasterCompany,
	"units":      MasterUnit,
	"groups":     MasterGroup,
}

type Handler struct {
	svc     *Service
	maxRows int

	// lastErrors keeps the most recent import failures per tenant so the UI
	// can download them as a workbook right after a rejected upload. The
	// cache is process-local: after a restart, or on a replica that did not
	// serve the upload, the download returns 404 and the client must
	// re-upload to regenerate the report.
	mu         sync.Mutex
	lastErrors map[string][]importer.RowError
}

// NewHandler builds the pharmacy handler. maxImportRows caps bulk upload
// size; zero means no cap.
func NewHandler(svc *Service, maxImportRows int) *Handler {
	return &Handler{svc: svc, maxRows: maxImportRows, lastErrors: make(map[string][]importer.RowError)}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "pharmacist", "doctor", "nurse"))
	read.GET("/pharmacy/medicines", h.ListMedicines)
	read.GET("/pharmacy/medicines/:id", h.GetMedicine)
	read.GET("/pharmacy/medicines/:id/stock", h.ListStock)

	write := api.Group("", auth.RequireRole("admin", "pharmacist"))
	for segment, kind := range masterRoutes {
		write.GET("/pharmacy/"+segment, h.ListMasters(kind))
		write.POST("/pharmacy/"+segment, h.CreateMaster(kind))
		write.DELETE("/pharmacy/"+segment+"/:id", h.DeleteMaster(kind))
	}
	write.POST("/pharmacy/medicines", h.CreateMedicine)
	write.PUT("/pharmacy/medicines/:id", h.UpdateMedicine)
	write.DELETE("/pharmacy/medicines/:id", h.DeleteMedicine)
	write.POST("/pharmacy/medicines/import", h.ImportMedicines)
	write.GET("/pharmacy/medicines/import/errors", h.DownloadImportErrors)
	write.POST("/pharmacy/medicines/:id/stock", h.AddStock)
}

// -- Masters --
//
// Each route closes over its master kind, so the handlers work no matter
// which group prefix they are registered under.

func (h *Handler) CreateMaster(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body struct {
			Name string `json:"name"`
		}
		if err := c.Bind(&body); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		m, err := h.svc.CreateMaster(c.Request().Context(), kind, body.Name)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusCreated, m)
	}
}

func (h *Handler) ListMasters(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := h.svc.ListMasters(c.Request().Context(), kind)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, items)
	}
}

func (h *Handler) DeleteMaster(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
		}
		if err := h.svc.DeleteMaster(c.Request().Context(), kind, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, kind+" not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// -- Medicines --

func (h *Handler) CreateMedicine(c echo.Context) error {
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMedicine(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMedicine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.GetMedicine(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) UpdateMedicine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateMedicine(c.Request().Context(), &m); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMedicine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteMedicine(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListMedicines(c.Request().Context(), c.QueryParam("q"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Stock --

func (h *Handler) AddStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var e StockEntry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.MedicineID = id
	if err := h.svc.AddStock(c.Request().Context(), &e); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) ListStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListStock(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// -- Bulk import --

// ImportMedicines accepts a multipart upload under the "file" field, runs the
// full validation pass, and returns the all-or-nothing report. Row errors
// come back with HTTP 200; only transport-level problems are HTTP errors.
func (h *Handler) ImportMedicines(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot open uploaded file")
	}
	defer f.Close()

	grid, err := spreadsheet.ReadRows(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is not a valid spreadsheet")
	}
	if h.maxRows > 0 && len(grid) > h.maxRows+1 {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds the %d row limit", h.maxRows))
	}

	report, err := h.svc.ImportMedicines(c.Request().Context(), grid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.mu.Lock()
	h.lastErrors[db.TenantFromContext(c.Request().Context())] = report.Errors
	h.mu.Unlock()

	return c.JSON(http.StatusOK, report)
}

// DownloadImportErrors renders the tenant's most recent import failures as an
// xlsx with the original columns plus row and error.
func (h *Handler) DownloadImportErrors(c echo.Context) error {
	h.mu.Lock()
	rowErrors := h.lastErrors[db.TenantFromContext(c.Request().Context())]
	h.mu.Unlock()

	if len(rowErrors) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no import errors recorded")
	}

	header := append([]string{"row", "error"}, MedicineImportColumns...)
	rows := make([][]string, 0, len(rowErrors))
	for _, re := range rowErrors {
		row := []string{strconv.Itoa(re.Row), re.Error}
		for _, col := range MedicineImportColumns {
			row = append(row, re.Data[col])
		}
		rows = append(rows, row)
	}

	buf, err := spreadsheet.WriteWorkbook("Import Errors", header, rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="import-errors.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
