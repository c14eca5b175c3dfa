package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// jsonDuration decodes a duration written as "5s" or as integer nanoseconds
type jsonDuration time.Duration

func (d *jsonDuration) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = jsonDuration(v)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	*d = jsonDuration(n)
	return nil
}

// UnmarshalJSON accepts process_timeout in time.ParseDuration form
func (c *ActorConfig) UnmarshalJSON(data []byte) error {
	type plain ActorConfig
	aux := struct {
		*plain
		ProcessTimeout *jsonDuration `json:"process_timeout"`
	}{
		plain:          (*plain)(c),
		ProcessTimeout: (*jsonDuration)(&c.ProcessTimeout),
	}
	return decodeJSONStrict(data, &aux)
}

// UnmarshalJSON accepts the host timeouts in time.ParseDuration form
func (c *HostConfig) UnmarshalJSON(data []byte) error {
	type plain HostConfig
	aux := struct {
		*plain
		ShutdownTimeout *jsonDuration `json:"shutdown_timeout"`
		WaitTimeout     *jsonDuration `json:"wait_timeout"`
	}{
		plain:           (*plain)(c),
		ShutdownTimeout: (*jsonDuration)(&c.ShutdownTimeout),
		WaitTimeout:     (*jsonDuration)(&c.WaitTimeout),
	}
	return decodeJSONStrict(data, &aux)
}

func decodeJSONStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
