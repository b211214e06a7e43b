package dto

import (
	"encoding/json"
	"strings"
)

// StringOrList decodes a JSON value that is either a string or a list of strings.
// OCR.space uses both shapes for ErrorMessage.
type StringOrList []string

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*s = nil
		} else {
			*s = StringOrList{single}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

func (s StringOrList) String() string {
	return strings.Join(s, "; ")
}
