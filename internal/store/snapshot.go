package store

import (
	"encoding/json"
	"errors"
	"os"
)

func decodeSnapshot(raw []byte) (map[string]string, error) {
	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
