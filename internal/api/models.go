package api

// SongResponse is the body of GET /api/song/{id}.
type SongResponse struct {
	Status string   `json:"status"`
	Song   *SongDTO `json:"song"`
}

// SongDTO is the server's description of a song.
type SongDTO struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	ImagePath string `json:"image_path"`
	IsLiked   bool   `json:"is_liked"`
}

// StatusResponse is the {status, message} body used by like-song.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse is the {success, message} body used by deletes.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Order is a payment order created by the server.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units (paise, cents)
	Currency string `json:"currency"`
}

// PaymentVerification carries the gateway's result back to the server.
type PaymentVerification struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
	PlanType  string `json:"plan_type"`
}

// PaymentResult is the body of POST /subscription/process-payment.
type PaymentResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
