package backend

import "encoding/json"

// decodeResult re-marshals a generically-decoded JSON-RPC result and
// unmarshals it into the caller's concrete type. The double hop avoids
// needing a per-method resty result type registered up front.
func decodeResult(result interface{}, out interface{}) error {
	if result == nil {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
