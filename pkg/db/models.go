package db

// Request represents an escort request record. IDs follow the [A-L]-NN-NN
// scheme assigned by the scheduling workflow; this engine never creates or
// deletes requests.
type Request struct {
	ID               string `ssql_header:"id" ssql_type:"text"`
	EventDate        string `ssql_header:"event_date" ssql_type:"date"`
	StartTime        string `ssql_header:"start_time" ssql_type:"text"`
	EndTime          string `ssql_header:"end_time" ssql_type:"text"`
	StartLocation    string `ssql_header:"start_location" ssql_type:"text"`
	SecondLocation   string `ssql_header:"second_location" ssql_type:"text"`
	EndLocation      string `ssql_header:"end_location" ssql_type:"text"`
	RequesterName    string `ssql_header:"requester_name" ssql_type:"text"`
	RequesterContact string `ssql_header:"requester_contact" ssql_type:"text"`
	Type             string `ssql_header:"type" ssql_type:"text"`
	Status           string `ssql_header:"status" ssql_type:"text"`
	Notes            string `ssql_header:"notes" ssql_type:"text"`
	Courtesy         string `ssql_header:"courtesy" ssql_type:"text"`
	RidersNeeded     int    `ssql_header:"riders_needed" ssql_type:"int"`
	LastUpdated      string `ssql_header:"last_updated" ssql_type:"text"`
}

// Assignment links one rider to one request. Event fields are duplicated
// from the parent request at creation time and kept in sync by field
// propagation. RiderID is the stable roster reference; RiderName is kept
// for display and as a fallback for rows created before ids existed.
// The three *SentAt fields are empty strings until the corresponding
// channel succeeds; notified_at is set whenever either channel is.
type Assignment struct {
	ID             string `ssql_header:"id" ssql_type:"text"`
	RequestID      string `ssql_header:"request_id" ssql_type:"text"`
	RiderID        string `ssql_header:"rider_id" ssql_type:"text"`
	RiderName      string `ssql_header:"rider_name" ssql_type:"text"`
	EventDate      string `ssql_header:"event_date" ssql_type:"date"`
	StartTime      string `ssql_header:"start_time" ssql_type:"text"`
	StartLocation  string `ssql_header:"start_location" ssql_type:"text"`
	SecondLocation string `ssql_header:"second_location" ssql_type:"text"`
	EndLocation    string `ssql_header:"end_location" ssql_type:"text"`
	Notes          string `ssql_header:"notes" ssql_type:"text"`
	Status         string `ssql_header:"status" ssql_type:"text"`
	SMSSentAt      string `ssql_header:"sms_sent_at" ssql_type:"text"`
	EmailSentAt    string `ssql_header:"email_sent_at" ssql_type:"text"`
	NotifiedAt     string `ssql_header:"notified_at" ssql_type:"text"`
	CreatedAt      string `ssql_header:"created_at" ssql_type:"text"`
}

// Property is a persisted key/value pair, used for small cross-invocation
// state such as the edit-debounce timestamp.
type Property struct {
	Key   string `ssql_header:"key" ssql_type:"text"`
	Value string `ssql_header:"value" ssql_type:"text"`
}
