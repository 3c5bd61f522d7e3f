package oauthmodel

import (
	"encoding/json"
	"fmt"
)

// RegisterUserRequest is posted to the partner users endpoint.
type RegisterUserRequest struct {
	MemberID string `json:"member-id"`
}

// RegisteredUser is returned when a registration succeeds.
type RegisteredUser struct {
	PolarUserID      int64  `json:"polar-user-id"`
	MemberID         string `json:"member-id"`
	RegistrationDate string `json:"registration-date,omitempty"`
	FirstName        string `json:"first-name,omitempty"`
	LastName         string `json:"last-name,omitempty"`
}

// TransactionItem is one entry in a transaction listing. The partner has served both
// bare URL strings and {"url": ...} objects, so both decode.
type TransactionItem struct {
	URL string `json:"url"`
}

func (t *TransactionItem) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		t.URL = raw
		return nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("transaction item: %w", err)
	}
	t.URL = obj.URL
	return nil
}

// TransactionList is the listing response. Only the key matching the requested kind is populated.
type TransactionList struct {
	ActivityLog []TransactionItem `json:"activity-log"`
	Exercises   []TransactionItem `json:"exercises"`
}

// ActivityLog is one daily activity summary as served by the partner.
type ActivityLog struct {
	ID             *int64   `json:"id,omitempty"`
	Date           string   `json:"date"`
	Created        string   `json:"created,omitempty"`
	Calories       *int     `json:"calories,omitempty"`
	ActiveCalories *int     `json:"active-calories,omitempty"`
	Steps          *int     `json:"steps,omitempty"`
	ActiveSteps    *int     `json:"active-steps,omitempty"`
	Distance       *float64 `json:"distance,omitempty"`
	ActiveTime     *string  `json:"active-time,omitempty"`
	Duration       *string  `json:"duration,omitempty"`
}

// HeartRate summarises an exercise heart rate trace.
type HeartRate struct {
	Average *int `json:"average,omitempty"`
	Maximum *int `json:"maximum,omitempty"`
}

// Exercise is one logged workout as served by the partner.
type Exercise struct {
	ID                json.RawMessage `json:"id,omitempty"`
	UploadTime        string          `json:"upload-time,omitempty"`
	Device            string          `json:"device,omitempty"`
	StartTime         string          `json:"start-time"`
	Duration          *string         `json:"duration,omitempty"`
	Calories          *int            `json:"calories,omitempty"`
	Distance          *float64        `json:"distance,omitempty"`
	HeartRate         *HeartRate      `json:"heart-rate,omitempty"`
	TrainingLoad      *float64        `json:"training-load,omitempty"`
	Sport             string          `json:"sport"`
	DetailedSportInfo string          `json:"detailed-sport-info,omitempty"`
}
