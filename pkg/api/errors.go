package api

import (
	"errors"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrorInfo is the machine-readable detail attached to every ledger error.
type ErrorInfo struct {
	Code    string
	Message string
	Fields  map[string]string
}

// NewErrorDetail encodes info as a Connect error detail (a google.protobuf.Struct).
func NewErrorDetail(info ErrorInfo) (*connect.ErrorDetail, error) {
	fields := make(map[string]any, len(info.Fields))
	for k, v := range info.Fields {
		fields[k] = v
	}
	s, err := structpb.NewStruct(map[string]any{
		"code":    info.Code,
		"message": info.Message,
		"fields":  fields,
	})
	if err != nil {
		return nil, err
	}
	return connect.NewErrorDetail(s)
}

// ErrorInfoOf extracts the ledger error detail from an error returned by a client.
func ErrorInfoOf(err error) (ErrorInfo, bool) {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ErrorInfo{}, false
	}
	for _, detail := range connectErr.Details() {
		msg, err := detail.Value()
		if err != nil {
			continue
		}
		s, ok := msg.(*structpb.Struct)
		if !ok {
			continue
		}
		m := s.GetFields()
		info := ErrorInfo{
			Code:    m["code"].GetStringValue(),
			Message: m["message"].GetStringValue(),
			Fields:  make(map[string]string),
		}
		for k, v := range m["fields"].GetStructValue().GetFields() {
			info.Fields[k] = v.GetStringValue()
		}
		return info, true
	}
	return ErrorInfo{}, false
}

// ErrorCode returns the ledger error code carried by err, or "" if there is none.
func ErrorCode(err error) string {
	info, _ := ErrorInfoOf(err)
	return info.Code
}
