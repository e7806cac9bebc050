package frontend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jo-hoe/ambitions/internal/archive"
	"github.com/jo-hoe/ambitions/internal/backend/commands"
	"github.com/jo-hoe/ambitions/internal/common"
	"github.com/jo-hoe/ambitions/internal/core"
	"github.com/jo-hoe/ambitions/internal/ticket"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName = "index.html"
	mimePNG      = "image/png"
)

type FrontendService struct {
	coreService   *core.CoreService
	config        *core.ServiceConfig
	tickets       *ticket.Service
	archiveClient *archive.Client
	tracker       *archive.Tracker
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService, tickets *ticket.Service, archiveClient *archive.Client, tracker *archive.Tracker) *FrontendService {
	return &FrontendService{
		coreService:   coreService,
		config:        config,
		tickets:       tickets,
		archiveClient: archiveClient,
		tracker:       tracker,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = NewTemplate()

	e.GET("/", service.indexHandler)
	e.GET("/"+MainPageName, service.indexRedirectHandler)

	e.GET("/htmx/gallery", service.htmxGalleryHandler)
	e.GET("/htmx/list", service.htmxListHandler)
	e.POST("/htmx/ambitions", service.htmxAddAmbitionHandler)

	e.GET("/ticket/:file", service.ticketHandler)
	e.POST("/htmx/ticket/:id/archive", service.htmxArchiveHandler)
	e.POST("/htmx/ticket/:id/archive/retry", service.htmxArchiveRetryHandler)

	e.GET("/icon.svg", service.iconHandler)
}

type pageData struct {
	Meta     core.PageMeta
	Route    core.Route
	ShareURL string
	Year     int
	Gallery  galleryData
	List     listData
	Form     formData
}

type galleryData struct {
	Carousel       core.Carousel
	Current        core.Ambition
	PrevIndex      int
	NextIndex      int
	IntervalMillis int64
	Dots           []galleryDot
}

type galleryDot struct {
	Index  int
	Number int
	Active bool
}

type listData struct {
	Query   core.ListQuery
	Options []core.SortOption
	Items   []core.Ambition
}

type formData struct {
	Values  core.RawSubmission
	Error   string
	MinYear int
}

type ticketData struct {
	Ambition core.Ambition
	FileName string
	Date     string
	Archive  archiveData
}

type archiveData struct {
	ID     int64
	Status archive.Status
}

type formResultData struct {
	Form   formData
	Ticket ticketData
}

// indexRedirectHandler keeps old /index.html links working, query included.
func (service *FrontendService) indexRedirectHandler(ctx echo.Context) error {
	target := "/"
	if query := ctx.QueryString(); query != "" {
		target += "?" + query
	}
	return ctx.Redirect(http.StatusMovedPermanently, target)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	records := service.coreService.Ambitions()
	query := ctx.QueryParams()
	route := core.ResolveRoute(query, records)

	data := pageData{
		Meta:  core.PageMetaFor(route, service.config.BaseURL, service.config.DefaultImage),
		Route: route,
		Year:  service.coreService.Now().Year(),
	}
	switch route.View {
	case core.ViewDetail:
		if route.Found {
			data.ShareURL = core.ShareURL(requestOrigin(ctx), route.Record.ID)
		}
	case core.ViewList:
		data.List = service.buildList(query.Get("q"), query.Get("sort"), query.Get("mode"), records)
	case core.ViewGallery:
		data.Gallery = service.buildGallery(0, records)
		data.Form = service.emptyForm()
	}

	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, MainPageName, data)
}

func (service *FrontendService) htmxGalleryHandler(ctx echo.Context) error {
	index, err := strconv.Atoi(ctx.QueryParam("index"))
	if err != nil {
		index = 0
	}
	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, "gallery", service.buildGallery(index, service.coreService.Ambitions()))
}

func (service *FrontendService) htmxListHandler(ctx echo.Context) error {
	data := service.buildList(ctx.QueryParam("q"), ctx.QueryParam("sort"), ctx.QueryParam("mode"), service.coreService.Ambitions())
	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, "list-results", data)
}

func (service *FrontendService) htmxAddAmbitionHandler(ctx echo.Context) error {
	var raw core.RawSubmission
	if err := ctx.Bind(&raw); err != nil {
		slog.Warn("htmxAddAmbitionHandler: failed to bind form", "status", http.StatusBadRequest, "error", err)
		return ctx.String(http.StatusBadRequest, "Invalid form submission")
	}

	now := service.coreService.Now()
	submission, err := core.ParseSubmission(raw, now)
	if err != nil {
		return service.renderFormError(ctx, raw, err)
	}

	// The photo is optional; a bad upload falls back to the placeholder.
	imageURL, err := service.readUpload(ctx)
	if err != nil {
		slog.Warn("htmxAddAmbitionHandler: ignoring upload, using placeholder image", "error", err)
		imageURL = ""
	}

	record := service.coreService.AddAmbition(ctx.Request().Context(), submission, imageURL)

	return ctx.Render(http.StatusOK, "form-result", formResultData{
		Form:   service.emptyForm(),
		Ticket: service.buildTicket(record),
	})
}

// renderFormError re-renders the form with the user's input and a single
// message. htmx only swaps 2xx responses, so validation failures are 200s.
func (service *FrontendService) renderFormError(ctx echo.Context, raw core.RawSubmission, err error) error {
	if !core.IsValidationError(err) {
		slog.Error("htmxAddAmbitionHandler: unexpected submission error", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to add ambition")
	}
	form := service.emptyForm()
	form.Values = raw
	form.Error = err.Error()
	return ctx.Render(http.StatusOK, "form", form)
}

// readUpload returns the normalised image as a data URL, or "" when no file
// was sent.
func (service *FrontendService) readUpload(ctx echo.Context) (string, error) {
	file, err := ctx.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get uploaded file: %w", err)
	}
	if file.Size == 0 {
		return "", nil
	}
	maxBytes := service.config.Upload.MaxBytes
	if file.Size > maxBytes {
		return "", fmt.Errorf("uploaded file %s is %d bytes, limit is %d", file.Filename, file.Size, maxBytes)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("readUpload: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("uploaded file %s exceeds %d bytes", file.Filename, maxBytes)
	}
	return commands.ProcessUpload(data, service.config.Upload.MaxWidth)
}

func (service *FrontendService) ticketHandler(ctx echo.Context) error {
	record, ok := service.lookup(strings.TrimSuffix(ctx.Param("file"), ".png"))
	if !ok {
		return ctx.String(http.StatusNotFound, "Ticket not available")
	}

	data, err := service.tickets.Ticket(ctx.Request().Context(), record)
	if err != nil {
		slog.Error("ticketHandler: failed to render ticket",
			"status", http.StatusInternalServerError, "ambition_id", record.ID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to render ticket")
	}

	if ctx.QueryParam("download") == "1" {
		ctx.Response().Header().Set(echo.HeaderContentDisposition, common.AttachmentDisposition(ticket.FileName(record)))
	}
	ctx.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return ctx.Blob(http.StatusOK, mimePNG, data)
}

func (service *FrontendService) htmxArchiveHandler(ctx echo.Context) error {
	record, ok := service.lookup(ctx.Param("id"))
	if !ok {
		return ctx.String(http.StatusNotFound, "Ambition not found")
	}
	submission := service.tracker.For(record.ID)
	// A closed tab must not abort a POST that already started.
	requestCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx.Request().Context()), service.config.Archive.Timeout)
	defer cancel()
	status := service.archiveClient.Submit(requestCtx, submission, record)
	return ctx.Render(http.StatusOK, "archive-status", archiveData{ID: record.ID, Status: status})
}

func (service *FrontendService) htmxArchiveRetryHandler(ctx echo.Context) error {
	record, ok := service.lookup(ctx.Param("id"))
	if !ok {
		return ctx.String(http.StatusNotFound, "Ambition not found")
	}
	status := service.tracker.For(record.ID).Retry()
	return ctx.Render(http.StatusOK, "archive-status", archiveData{ID: record.ID, Status: status})
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", []byte(ticket.LogoSVG))
}

func (service *FrontendService) lookup(rawID string) (core.Ambition, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return core.Ambition{}, false
	}
	return service.coreService.GetAmbition(id)
}

func (service *FrontendService) buildGallery(index int, records []core.Ambition) galleryData {
	carousel := core.NewCarousel(index, len(records))
	data := galleryData{
		Carousel:       carousel,
		IntervalMillis: service.config.Gallery.Interval.Milliseconds(),
	}
	if carousel.Empty() {
		return data
	}
	data.Current = records[carousel.Index]
	data.PrevIndex = carousel.Prev().Index
	data.NextIndex = carousel.Next().Index
	data.Dots = make([]galleryDot, len(records))
	for i := range records {
		data.Dots[i] = galleryDot{Index: i, Number: i + 1, Active: i == carousel.Index}
	}
	return data
}

func (service *FrontendService) buildList(search, sort, mode string, records []core.Ambition) listData {
	query := core.ListQuery{
		Search: search,
		Sort:   core.ParseSortKey(sort),
		Mode:   core.ParseDisplayMode(mode),
	}
	return listData{
		Query:   query,
		Options: core.SortOptions(),
		Items:   core.FilterAndSort(records, query.Search, query.Sort),
	}
}

func (service *FrontendService) buildTicket(record core.Ambition) ticketData {
	return ticketData{
		Ambition: record,
		FileName: ticket.FileName(record),
		Date:     service.tickets.Renderer().FormatDate(record.CreatedAt),
		Archive:  archiveData{ID: record.ID, Status: service.tracker.For(record.ID).Status()},
	}
}

func (service *FrontendService) emptyForm() formData {
	return formData{MinYear: service.coreService.Now().Year() + 1}
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func requestOrigin(ctx echo.Context) string {
	return ctx.Scheme() + "://" + ctx.Request().Host
}
