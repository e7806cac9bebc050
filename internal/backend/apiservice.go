package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jo-hoe/ambitions/internal/common"
	"github.com/jo-hoe/ambitions/internal/core"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const ExportFileName = "ambitions_data.json"

type APIService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

// AmbitionRequest is the JSON body accepted by POST /api/ambitions.
type AmbitionRequest struct {
	Name       string `json:"name" validate:"required"`
	Age        int    `json:"age"`
	Ambition   string `json:"ambition" validate:"required"`
	TargetYear int    `json:"targetYear"`
	Story      string `json:"story"`
	Instagram  string `json:"instagram"`
	ImageURL   string `json:"imageUrl" validate:"omitempty,url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
		config:      config,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/api/ambitions", s.exportHandler)
	e.GET("/api/ambitions/:id", s.getAmbitionHandler)
	e.POST("/api/ambitions", s.addAmbitionHandler)
}

// exportHandler returns the whole collection in insertion order.
// download=1 offers it as ambitions_data.json.
func (s *APIService) exportHandler(ctx echo.Context) error {
	if ctx.QueryParam("download") == "1" {
		ctx.Response().Header().Set(echo.HeaderContentDisposition, common.AttachmentDisposition(ExportFileName))
	}
	return ctx.JSONPretty(http.StatusOK, s.coreService.Ambitions(), "  ")
}

func (s *APIService) getAmbitionHandler(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid ambition id"})
	}
	record, ok := s.coreService.GetAmbition(id)
	if !ok {
		return ctx.JSON(http.StatusNotFound, errorResponse{Error: "ambition not found"})
	}
	return ctx.JSON(http.StatusOK, record)
}

func (s *APIService) addAmbitionHandler(ctx echo.Context) error {
	var request AmbitionRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}
	if err := ctx.Validate(&request); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return ctx.JSON(httpErr.Code, errorResponse{Error: fmt.Sprint(httpErr.Message)})
		}
		return err
	}

	submission, err := core.ParseSubmission(request.raw(), s.coreService.Now())
	if err != nil {
		var validationErr *core.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.JSON(http.StatusBadRequest, errorResponse{Error: validationErr.Message})
		}
		slog.Error("addAmbitionHandler: failed to parse submission", "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to add ambition"})
	}

	record := s.coreService.AddAmbition(ctx.Request().Context(), submission, request.ImageURL)
	return ctx.JSON(http.StatusCreated, record)
}

func (r AmbitionRequest) raw() core.RawSubmission {
	return core.RawSubmission{
		Name:       r.Name,
		Age:        strconv.Itoa(r.Age),
		Ambition:   r.Ambition,
		TargetYear: strconv.Itoa(r.TargetYear),
		Story:      r.Story,
		Instagram:  r.Instagram,
	}
}
