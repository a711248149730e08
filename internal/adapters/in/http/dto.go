package http

import (
	"time"

	"github.com/go-playground/validator/v10"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/prescription"
)

// ErrorResponse is the JSON payload returned on any failure.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RequestValidator adapts go-playground/validator to echo's Validator hook.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates the validator used for request body DTOs.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// SelectionDTO is one drug choice: pharmacy, resolved medicine and quantity.
// An empty medicineId means the drug is unresolved at the chosen pharmacy.
type SelectionDTO struct {
	DrugName   string `json:"drugName" validate:"required"`
	PharmacyID string `json:"pharmacyId" validate:"required,uuid"`
	MedicineID string `json:"medicineId,omitempty" validate:"omitempty,uuid"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

// StockItemDTO is one priced inventory line of a pharmacy snapshot.
type StockItemDTO struct {
	MedicineID string  `json:"medicineId"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int     `json:"quantity"`
}

// PharmacyDTO is one pharmacy's snapshot as returned with a match.
type PharmacyDTO struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Stock []StockItemDTO `json:"stock"`
}

// PrescriptionResponse is the outcome of uploading a prescription image.
type PrescriptionResponse struct {
	ExtractedText string         `json:"extractedText"`
	Selections    []SelectionDTO `json:"selections"`
	Unavailable   []string       `json:"unavailable"`
	Pharmacies    []PharmacyDTO  `json:"pharmacies"`
	CreatedAt     time.Time      `json:"createdAt"`
	ExpiresAt     time.Time      `json:"expiresAt"`
}

// AddressDTO is the delivery destination supplied with an order draft.
type AddressDTO struct {
	Street       string  `json:"street" validate:"required"`
	City         string  `json:"city" validate:"required"`
	ZipCode      string  `json:"zipCode" validate:"required"`
	ContactPhone string  `json:"contactPhone" validate:"required"`
	Lat          float64 `json:"lat" validate:"latitude"`
	Lng          float64 `json:"lng" validate:"longitude"`
}

// OrderDraftRequest carries the customer's current selections for preview or
// submission. CreatedAt is the match timestamp returned by the upload; the
// server re-applies the validity window against it.
type OrderDraftRequest struct {
	CreatedAt       time.Time      `json:"createdAt" validate:"required"`
	Selections      []SelectionDTO `json:"selections" validate:"required,min=1,dive"`
	DeliveryAddress AddressDTO     `json:"deliveryAddress" validate:"required"`
	PaymentMethod   string         `json:"paymentMethod,omitempty"`
}

// PreviewResponse is the confirmation summary shown before submission.
type PreviewResponse struct {
	PharmacyID      string  `json:"pharmacyId"`
	PharmacyName    string  `json:"pharmacyName"`
	Total           float64 `json:"total"`
	MixedPharmacies bool    `json:"mixedPharmacies"`
}

// CreateOrderResponse identifies the order created by a submission.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

// TransitionRequest names the lifecycle action to apply to an order.
type TransitionRequest struct {
	Action string `json:"action" validate:"required"`
	Reason string `json:"reason,omitempty"`
}

// AssignmentRequest proposes a delivery agent for an order.
type AssignmentRequest struct {
	AgentID string `json:"agentId" validate:"required,uuid"`
}

// AssignmentResponseRequest is the proposed agent's accept or reject answer.
type AssignmentResponseRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

// LocationRequest is a courier position report for an order in transit.
type LocationRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

func selectionToDTO(selection prescription.Selection) SelectionDTO {
	dto := SelectionDTO{
		DrugName:   selection.DrugName,
		PharmacyID: selection.PharmacyID.String(),
		Quantity:   selection.Quantity,
	}
	if !selection.UnavailableAtPharmacy() {
		dto.MedicineID = selection.MedicineID.String()
	}
	return dto
}

func selectionFromDTO(dto SelectionDTO) (prescription.Selection, error) {
	pharmacyID, err := kernel.UUIDFromString(dto.PharmacyID)
	if err != nil {
		return prescription.Selection{}, err
	}
	selection := prescription.Selection{
		DrugName:   dto.DrugName,
		PharmacyID: pharmacyID,
		Quantity:   dto.Quantity,
	}
	if dto.MedicineID != "" {
		selection.MedicineID, err = kernel.UUIDFromString(dto.MedicineID)
		if err != nil {
			return prescription.Selection{}, err
		}
	}
	return selection, nil
}

func snapshotsToDTO(snapshots []prescription.PharmacySnapshot) []PharmacyDTO {
	pharmacies := make([]PharmacyDTO, len(snapshots))
	for i, snapshot := range snapshots {
		stock := make([]StockItemDTO, len(snapshot.Stock))
		for j, item := range snapshot.Stock {
			stock[j] = StockItemDTO{
				MedicineID: item.MedicineID.String(),
				Name:       item.Name,
				UnitPrice:  item.UnitPrice,
				Quantity:   item.Quantity,
			}
		}
		pharmacies[i] = PharmacyDTO{
			ID:    snapshot.PharmacyID.String(),
			Name:  snapshot.Name,
			Stock: stock,
		}
	}
	return pharmacies
}

// OrderItemDTO is one line of an order view.
type OrderItemDTO struct {
	MedicineID string  `json:"medicineId"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int     `json:"quantity"`
}

// StatusChangeDTO is one entry of an order's status history view.
type StatusChangeDTO struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// OrderResponse is the full order detail view.
type OrderResponse struct {
	ID            string            `json:"id"`
	PharmacyID    string            `json:"pharmacyId"`
	CustomerID    string            `json:"customerId"`
	Status        string            `json:"status"`
	PaymentMethod string            `json:"paymentMethod"`
	Street        string            `json:"street"`
	City          string            `json:"city"`
	ZipCode       string            `json:"zipCode"`
	ContactPhone  string            `json:"contactPhone"`
	Total         float64           `json:"total"`
	AgentID       string            `json:"agentId,omitempty"`
	TrackingLat   *float64          `json:"trackingLat,omitempty"`
	TrackingLng   *float64          `json:"trackingLng,omitempty"`
	Items         []OrderItemDTO    `json:"items"`
	History       []StatusChangeDTO `json:"history"`
}

// OrderSummaryDTO is one row of a pharmacy or agent order list.
type OrderSummaryDTO struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customerId"`
	Status     string  `json:"status"`
	Total      float64 `json:"total"`
	ItemCount  int     `json:"itemCount"`
}

// AgentViewDTO is one row of the available agents list.
type AgentViewDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateAgentRequest registers a new delivery agent.
type CreateAgentRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// CreateAgentResponse identifies the agent created by a registration.
type CreateAgentResponse struct {
	AgentID string `json:"agentId"`
}

func addressFromDTO(dto AddressDTO) (kernel.Address, error) {
	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.NewAddress(dto.Street, dto.City, dto.ZipCode, dto.ContactPhone, location)
}
