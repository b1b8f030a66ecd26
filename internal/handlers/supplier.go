package handlers

import (
	"context"

	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/inventory"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// SupplierHandler covers supplier-side inventory control: manual reservations
// (walk-ins, phone bookings) and blocking whole days.
type SupplierHandler struct {
	db          *gorm.DB
	engine      *inventory.Engine
	authHandler *auth.AuthHandler
}

func NewSupplierHandler(db *gorm.DB, engine *inventory.Engine, authHandler *auth.AuthHandler) *SupplierHandler {
	return &SupplierHandler{db: db, engine: engine, authHandler: authHandler}
}

func (h *SupplierHandler) supplier(ctx context.Context, cookie string) (*models.Supplier, error) {
	userID, err := h.authHandler.Authorize(ctx, cookie)
	if err != nil {
		return nil, err
	}
	return h.authHandler.SupplierFor(userID)
}

type ReserveRequest struct {
	auth.AuthInput
	Body struct {
		OfferID  uint `json:"offer_id" required:"true"`
		SlotID   uint `json:"slot_id" required:"true"`
		Quantity int  `json:"quantity" required:"true" minimum:"1"`
	}
}

type ReserveResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func reserved() *ReserveResponse {
	res := &ReserveResponse{}
	res.Body.Message = "Reservation recorded"
	return res
}

func (h *SupplierHandler) HandleReserveActivity(ctx context.Context, input *ReserveRequest) (*ReserveResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	err = h.engine.Reserve(ctx, inventory.Activities, supplier.ID, input.Body.OfferID, input.Body.SlotID, input.Body.Quantity)
	if err != nil {
		return nil, apiError(err)
	}
	return reserved(), nil
}

func (h *SupplierHandler) HandleReserveTour(ctx context.Context, input *ReserveRequest) (*ReserveResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	err = h.engine.Reserve(ctx, inventory.Tours, supplier.ID, input.Body.OfferID, input.Body.SlotID, input.Body.Quantity)
	if err != nil {
		return nil, apiError(err)
	}
	return reserved(), nil
}

type ReservePackageRequest struct {
	auth.AuthInput
	Body struct {
		OfferID   uint   `json:"offer_id" required:"true"`
		StartDate string `json:"start_date" required:"true" doc:"YYYY-MM-DD"`
		Quantity  int    `json:"quantity" required:"true" minimum:"1"`
	}
}

func (h *SupplierHandler) HandleReservePackage(ctx context.Context, input *ReservePackageRequest) (*ReserveResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(input.Body.StartDate)
	if err != nil {
		return nil, err
	}
	err = h.engine.ReservePackageRange(ctx, supplier.ID, input.Body.OfferID, start, input.Body.Quantity)
	if err != nil {
		return nil, apiError(err)
	}
	return reserved(), nil
}

type BlockDayRequest struct {
	auth.AuthInput
	Body struct {
		ProductID uint   `json:"product_id" required:"true"`
		Day       string `json:"day" required:"true" doc:"YYYY-MM-DD"`
	}
}

type BlockDayResponse struct {
	Body struct {
		Blocked int64 `json:"blocked" doc:"Slots zeroed"`
	}
}

func (h *SupplierHandler) blockDay(ctx context.Context, k inventory.Kind, input *BlockDayRequest) (*BlockDayResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	day, err := parseDate(input.Body.Day)
	if err != nil {
		return nil, err
	}
	blocked, err := h.engine.Block(ctx, k, supplier.ID, input.Body.ProductID, day)
	if err != nil {
		return nil, apiError(err)
	}
	res := &BlockDayResponse{}
	res.Body.Blocked = blocked
	return res, nil
}

func (h *SupplierHandler) HandleBlockActivityDay(ctx context.Context, input *BlockDayRequest) (*BlockDayResponse, error) {
	return h.blockDay(ctx, inventory.Activities, input)
}

func (h *SupplierHandler) HandleBlockTourDay(ctx context.Context, input *BlockDayRequest) (*BlockDayResponse, error) {
	return h.blockDay(ctx, inventory.Tours, input)
}

func (h *SupplierHandler) HandleBlockPackageDay(ctx context.Context, input *BlockDayRequest) (*BlockDayResponse, error) {
	return h.blockDay(ctx, inventory.Packages, input)
}
