package models

// HistoryRequest selects the historical price window. Range is forwarded
// to the upstream source as-is.
type HistoryRequest struct {
	Range string `query:"range" default:"1mo"`
}

// NewsRequest bounds the news feed size.
type NewsRequest struct {
	Limit int `query:"limit" default:"8" validate:"gte=1,lte=50"`
}
