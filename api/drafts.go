package api

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/Domenick1991/travelbackoffice/internal/draft"
	"github.com/Domenick1991/travelbackoffice/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const actorHeader = "X-Actor-ID"

type DraftHandler struct {
	service booking.BookingUseCase
}

type travellerFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

type legacyFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type tripTypeRequest struct {
	TripType domain.TripType `json:"tripType" binding:"required"`
}

type segmentFieldRequest struct {
	Field  string `json:"field" binding:"required"`
	Nested string `json:"nested"`
	Value  string `json:"value"`
}

type addonRequest struct {
	Enabled *bool   `json:"enabled"`
	Price   *string `json:"price"`
}

type customerRequest struct {
	Index     int                      `json:"index"`
	Candidate domain.CustomerCandidate `json:"candidate"`
}

func NewDraftHandler(service booking.BookingUseCase) *DraftHandler {
	return &DraftHandler{service: service}
}

func (h *DraftHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.POST("/load/:bookingId", h.load)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.discard)
	router.POST("/:id/travellers", h.addTraveller)
	router.PATCH("/:id/travellers/:index", h.updateTraveller)
	router.DELETE("/:id/travellers/:index", h.removeTraveller)
	router.PATCH("/:id/legacy", h.setLegacy)
	router.PATCH("/:id/fields", h.setFields)
	router.PUT("/:id/trip-type", h.setTripType)
	router.POST("/:id/itineraries/:it/segments", h.addSegment)
	router.PATCH("/:id/itineraries/:it/segments/:seg", h.updateSegment)
	router.DELETE("/:id/itineraries/:it/segments/:seg", h.removeSegment)
	router.PUT("/:id/addons/:name", h.setAddon)
	router.PUT("/:id/customer", h.associateCustomer)
	router.GET("/:id/preview", h.preview)
	router.POST("/:id/submit", h.submit)
}

func (h *DraftHandler) create(c *gin.Context) {
	session, err := h.service.NewDraft(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *DraftHandler) load(c *gin.Context) {
	session, err := h.service.LoadBooking(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *DraftHandler) get(c *gin.Context) {
	session, err := h.service.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *DraftHandler) discard(c *gin.Context) {
	if err := h.service.Discard(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (h *DraftHandler) addTraveller(c *gin.Context) {
	h.edit(c, func(e *draft.Editor) error {
		e.AddTraveller()
		return nil
	})
}

func (h *DraftHandler) updateTraveller(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req travellerFieldRequest
	if !bind(c, &req) {
		return
	}
	h.edit(c, func(e *draft.Editor) error {
		return e.UpdateTravellerField(index, req.Field, req.Value)
	})
}

func (h *DraftHandler) removeTraveller(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	h.edit(c, func(e *draft.Editor) error {
		return e.RemoveTraveller(index)
	})
}

func (h *DraftHandler) setLegacy(c *gin.Context) {
	var req legacyFieldRequest
	if !bind(c, &req) {
		return
	}
	h.edit(c, func(e *draft.Editor) error {
		return e.SetLegacyField(req.Field, req.Value)
	})
}

// setFields applies a batch of metadata edits. Keys are applied in sorted
// order and the whole batch is rejected if any one fails.
func (h *DraftHandler) setFields(c *gin.Context) {
	var req map[string]string
	if !bind(c, &req) {
		return
	}
	fields := make([]string, 0, len(req))
	for field := range req {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	h.edit(c, func(e *draft.Editor) error {
		for _, field := range fields {
			if err := e.SetField(field, req[field]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *DraftHandler) setTripType(c *gin.Context) {
	var req tripTypeRequest
	if !bind(c, &req) {
		return
	}
	h.edit(c, func(e *draft.Editor) error {
		return e.SetTripType(req.TripType)
	})
}

func (h *DraftHandler) addSegment(c *gin.Context) {
	it, ok := intParam(c, "it")
	if !ok {
		return
	}
	h.edit(c, func(e *draft.Editor) error {
		return e.AddSegment(it)
	})
}

func (h *DraftHandler) updateSegment(c *gin.Context) {
	it, ok := intParam(c, "it")
	if !ok {
		return
	}
	seg, ok := intParam(c, "seg")
	if !ok {
		return
	}
	var req segmentFieldRequest
	if !bind(c, &req) {
		return
	}
	h.edit(c, func(e *draft.Editor) error {
		return e.UpdateSegmentField(it, seg, req.Field, req.Value, req.Nested)
	})
}

func (h *DraftHandler) removeSegment(c *gin.Context) {
	it, ok := intParam(c, "it")
	if !ok {
		return
	}
	seg, ok := intParam(c, "seg")
	if !ok {
		return
	}
	h.edit(c, func(e *draft.Editor) error {
		return e.RemoveSegment(it, seg)
	})
}

func (h *DraftHandler) setAddon(c *gin.Context) {
	name := c.Param("name")
	var req addonRequest
	if !bind(c, &req) {
		return
	}
	h.edit(c, func(e *draft.Editor) error {
		if req.Enabled != nil {
			if err := e.SetAddonEnabled(name, *req.Enabled); err != nil {
				return err
			}
		}
		if req.Price != nil {
			return e.SetAddonPrice(name, *req.Price)
		}
		return nil
	})
}

func (h *DraftHandler) associateCustomer(c *gin.Context) {
	var req customerRequest
	if !bind(c, &req) {
		return
	}
	session, err := h.service.AssociateCustomer(c.Request.Context(), c.Param("id"), c.GetHeader(actorHeader), req.Index, req.Candidate)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *DraftHandler) preview(c *gin.Context) {
	preview, err := h.service.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *DraftHandler) submit(c *gin.Context) {
	result, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h *DraftHandler) edit(c *gin.Context, fn func(*draft.Editor) error) {
	ctx := booking.WithActor(c.Request.Context(), c.GetHeader(actorHeader))
	session, err := h.service.Edit(ctx, c.Param("id"), fn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
