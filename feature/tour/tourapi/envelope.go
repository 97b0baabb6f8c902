package tourapi

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
)

// resultOK is the header code of a successful response.
const resultOK = "0000"

// APIError is an error reported by TourAPI itself rather than the transport.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tourapi error %s: %s", e.Code, e.Message)
}

type envelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items      json.RawMessage `json:"items"`
			NumOfRows  int             `json:"numOfRows"`
			PageNo     int             `json:"pageNo"`
			TotalCount int             `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// xmlError is the gateway error document returned for key and quota errors,
// even when JSON was requested.
type xmlError struct {
	XMLName xml.Name `xml:"OpenAPI_ServiceResponse"`
	Header  struct {
		ErrMsg           string `xml:"errMsg"`
		ReturnAuthMsg    string `xml:"returnAuthMsg"`
		ReturnReasonCode string `xml:"returnReasonCode"`
	} `xml:"cmmMsgHeader"`
}

// decoded is a parsed response body.
type decoded struct {
	Items      []map[string]any
	TotalCount int
}

func decode(body []byte) (*decoded, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if trimmed[0] == '<' {
		var xe xmlError
		if err := xml.Unmarshal(trimmed, &xe); err != nil {
			return nil, fmt.Errorf("unexpected xml response: %w", err)
		}
		msg := xe.Header.ReturnAuthMsg
		if msg == "" {
			msg = xe.Header.ErrMsg
		}
		return nil, &APIError{Code: xe.Header.ReturnReasonCode, Message: msg}
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if code := env.Response.Header.ResultCode; code != resultOK {
		return nil, &APIError{Code: code, Message: env.Response.Header.ResultMsg}
	}

	items, err := decodeItems(env.Response.Body.Items)
	if err != nil {
		return nil, err
	}
	return &decoded{Items: items, TotalCount: env.Response.Body.TotalCount}, nil
}

// decodeItems handles the three shapes of body.items: "" when empty,
// {"item": {...}} for one result and {"item": [...]} for several.
func decodeItems(raw json.RawMessage) ([]map[string]any, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == `""` || s == "null" {
		return nil, nil
	}

	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	item := bytes.TrimSpace(wrapper.Item)
	if len(item) == 0 || string(item) == "null" {
		return nil, nil
	}

	if item[0] == '{' {
		var one map[string]any
		if err := json.Unmarshal(item, &one); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		return []map[string]any{one}, nil
	}

	var many []map[string]any
	if err := json.Unmarshal(item, &many); err != nil {
		return nil, fmt.Errorf("decode item list: %w", err)
	}
	return many, nil
}
