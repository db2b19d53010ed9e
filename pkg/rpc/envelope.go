package rpc

import (
	"encoding/json"

	"eventhub/pkg/errutil"
)

// Envelope is the wire format for every internal command. Success carries
// the result in Data; failure carries the classifier and a stable message.
type Envelope struct {
	Success bool               `json:"success"`
	Code    errutil.CoreStatus `json:"code,omitempty"`
	Message string             `json:"message,omitempty"`
	Data    json.RawMessage    `json:"data,omitempty"`
}

func successEnvelope(data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Success: true, Data: raw}, nil
}

func failureEnvelope(err error) Envelope {
	code := errutil.StatusFrom(err)
	message := err.Error()

	var be errutil.BaseError
	if ok := asBaseError(err, &be); ok {
		message = be.Message
	}

	return Envelope{Success: false, Code: code, Message: message}
}
