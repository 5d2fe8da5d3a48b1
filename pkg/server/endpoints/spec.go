package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/otwartedane/mcod/api"
	"github.com/otwartedane/mcod/pkg/server"
)

// RegisterSpecEndpoints serves the OpenAPI document as YAML and JSON
func RegisterSpecEndpoints(s *server.Server) {
	s.Router.HandleFunc("/spec", handleSpecYAML()).Methods("GET")
	s.Router.HandleFunc("/spec.json", handleSpecJSON(s.Logger)).Methods("GET")
}

func handleSpecYAML() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPI)
	}
}

var (
	specJSONOnce sync.Once
	specJSON     []byte
	specJSONErr  error
)

func handleSpecJSON(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specJSONOnce.Do(func() {
			specJSON, specJSONErr = yamlToJSON(api.OpenAPI)
		})
		if specJSONErr != nil {
			logger.Error("converting OpenAPI document", zap.Error(specJSONErr))
			respondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": "spec unavailable"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(specJSON)
	}
}

func yamlToJSON(doc []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(doc, &v); err != nil {
		return nil, err
	}
	v, err := normalize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// normalize converts yaml.v3 values into types encoding/json accepts
func normalize(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = n
		}
		return out, nil
	case []interface{}:
		for i, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}
