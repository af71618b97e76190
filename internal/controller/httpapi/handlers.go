package httpapi

import (
	"errors"
	"net/http"

	"github.com/AnubhavPadiyar/spotscout-server/internal/clock"
	"github.com/AnubhavPadiyar/spotscout-server/internal/format"
	"github.com/AnubhavPadiyar/spotscout-server/internal/model"
	"github.com/AnubhavPadiyar/spotscout-server/internal/service"
	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// Handler exposes the engine's four operations and the read surfaces
// to presentation layers.
type Handler struct {
	libraries *service.LibraryService
	engine    *service.BookingService
	students  *service.StudentService
	clk       clock.Clock
	logger    *zap.Logger
}

func NewHandler(
	libraries *service.LibraryService,
	engine *service.BookingService,
	students *service.StudentService,
	clk clock.Clock,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		libraries: libraries,
		engine:    engine,
		students:  students,
		clk:       clk,
		logger:    logger,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetLibraries returns the roster. The read reconciles expirations
// first, so counts are never stale past a deadline.
func (h *Handler) GetLibraries(c *gin.Context) {
	libs, err := h.libraries.GetLibraries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, libs)
}

// GetLibraryQR renders the library's entrance code as a PNG. The
// payload is exactly the library id: no signature, no expiry. Anyone
// who reproduces the poster can produce valid scans; the deployment
// trusts physical access to the real poster.
func (h *Handler) GetLibraryQR(c *gin.Context) {
	lib, err := h.libraries.GetLibrary(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrLibraryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "library not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	png, err := qrcode.Encode(lib.ID, qrcode.Medium, 512)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// bookingView decorates an active booking with its countdown
// projection: seconds to the reservation deadline while pending,
// seconds to session end while confirmed.
type bookingView struct {
	*model.Booking
	SecondsLeft *int   `json:"secondsLeft,omitempty"`
	Countdown   string `json:"countdown,omitempty"`
}

func (h *Handler) view(b *model.Booking) bookingView {
	v := bookingView{Booking: b}
	now := h.clk.Now()

	switch b.Status {
	case model.BookingStatusPending:
		left := format.SecondsLeft(b.ExpiresAt, now)
		v.SecondsLeft = &left
		v.Countdown = format.Countdown(left)
	case model.BookingStatusConfirmed:
		if b.SessionEndsAt != nil {
			left := format.SecondsLeft(*b.SessionEndsAt, now)
			v.SecondsLeft = &left
			v.Countdown = format.Countdown(left)
		}
	}
	return v
}

// GetBookings returns the ledger for display, newest first.
func (h *Handler) GetBookings(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.engine.ReconcileExpirations(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	bookings := h.engine.Bookings(ctx)
	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, h.view(b))
	}
	c.JSON(http.StatusOK, views)
}

type createBookingRequest struct {
	LibraryID string `json:"libraryId" binding:"required"`
}

// CreateBooking reserves a seat for the onboarded student.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	student := h.students.Get(ctx)
	if student == nil {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "no student profile", "code": "noProfile"})
		return
	}

	booking, err := h.engine.CreateBooking(ctx, req.LibraryID, student)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLibraryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "libraryNotFound"})
		case errors.Is(err, service.ErrNoSeats):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "noSeats"})
		case errors.Is(err, service.ErrDuplicateActiveBooking):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "duplicateActiveBooking"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, h.view(booking))
}

type scanRequest struct {
	// Code is the scanned payload, which equals the library id.
	Code string `json:"code" binding:"required"`
}

// Scan resolves an entrance-code scan for the onboarded student.
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	student := h.students.Get(ctx)
	if student == nil {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "no student profile", "code": "noProfile"})
		return
	}

	outcome, err := h.engine.HandleScan(ctx, req.Code, student)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"action": outcome.Action}
	if outcome.Booking != nil {
		resp["booking"] = h.view(outcome.Booking)
	}
	c.JSON(http.StatusOK, resp)
}

type adminLoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// AdminLogin verifies a PIN and reports the scope it grants.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope, ok := h.libraries.VerifyAdminPIN(c.Request.Context(), req.PIN)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid PIN"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scope": scope})
}

type adminReleaseRequest struct {
	PIN       string `json:"pin" binding:"required"`
	LibraryID string `json:"libraryId" binding:"required"`
	Count     int    `json:"count" binding:"required"`
}

// AdminRelease force-releases up to count confirmed seats at a library.
func (h *Handler) AdminRelease(c *gin.Context) {
	var req adminReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	scope, ok := h.libraries.VerifyAdminPIN(ctx, req.PIN)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid PIN"})
		return
	}
	if !scope.Covers(req.LibraryID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "PIN does not cover this library"})
		return
	}

	released, err := h.engine.AdminRelease(ctx, req.LibraryID, req.Count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": released})
}

// GetStudent returns the onboarded profile, 404 until onboarding.
func (h *Handler) GetStudent(c *gin.Context) {
	student := h.students.Get(c.Request.Context())
	if student == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no student profile", "code": "noProfile"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// PutStudent saves the profile.
func (h *Handler) PutStudent(c *gin.Context) {
	var student model.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.students.Save(c.Request.Context(), &student); err != nil {
		var verr service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, student)
}
