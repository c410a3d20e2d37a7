package lalamove

// Coordinates are decimal-string lat/lng, the carrier's wire format.
type Coordinates struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Stop is a route waypoint. StopID is assigned by the carrier and only
// present on quotation-details responses.
type Stop struct {
	Coordinates  Coordinates `json:"coordinates"`
	Address      string      `json:"address"`
	StopID       string      `json:"stopId,omitempty"`
	ContactName  string      `json:"contactName,omitempty"`
	ContactPhone string      `json:"contactPhone,omitempty"`
}

// Item describes the goods being moved; it rides along on quotation
// requests.
type Item struct {
	Quantity             string   `json:"quantity,omitempty"`
	Weight               string   `json:"weight,omitempty"`
	Categories           []string `json:"categories,omitempty"`
	HandlingInstructions []string `json:"handlingInstructions,omitempty"`
}

type QuotationPayload struct {
	ServiceType string `json:"serviceType"`
	Stops       []Stop `json:"stops"`
	Language    string `json:"language,omitempty"`
	Item        *Item  `json:"item,omitempty"`
}

// PriceBreakdown carries carrier money amounts as decimal strings.
type PriceBreakdown struct {
	Currency                string `json:"currency"`
	Total                   string `json:"total"`
	PriorityFee             string `json:"priorityFee,omitempty"`
	TotalExcludePriorityFee string `json:"totalExcludePriorityFee,omitempty"`
}

// Quotation is immutable once returned. Stops carry stopIds only on the
// details fetch, never on the initial quotation response.
type Quotation struct {
	QuotationID    string         `json:"quotationId"`
	ServiceType    string         `json:"serviceType,omitempty"`
	Stops          []Stop         `json:"stops"`
	PriceBreakdown PriceBreakdown `json:"priceBreakdown"`
	ExpiresAt      string         `json:"expiresAt,omitempty"`
}

type Contact struct {
	StopID string `json:"stopId"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

type Recipient struct {
	StopID  string `json:"stopId"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Remarks string `json:"remarks,omitempty"`
}

type OrderPayload struct {
	QuotationID  string      `json:"quotationId"`
	Sender       Contact     `json:"sender"`
	Recipients   []Recipient `json:"recipients"`
	IsPODEnabled bool        `json:"isPODEnabled,omitempty"`
	Partner      string      `json:"partner,omitempty"`
}

type Order struct {
	OrderID        string         `json:"orderId"`
	QuotationID    string         `json:"quotationId,omitempty"`
	Status         string         `json:"status,omitempty"`
	PriceBreakdown *PriceBreakdown `json:"priceBreakdown,omitempty"`
	DriverID       string         `json:"driverId,omitempty"`
	ShareLink      string         `json:"shareLink,omitempty"`
}

type OrderEditPayload struct {
	Stops []Stop `json:"stops"`
}

type PriorityFeePayload struct {
	PriorityFee string `json:"priorityFee"`
}

type WebhookPayload struct {
	URL string `json:"url"`
}
