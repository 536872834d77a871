package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("doc is not JSON: %v", err)
	}
	paths, _ := v["paths"].(map[string]any)
	for _, p := range []string{"/models", "/model-status/{model}", "/describe", "/status"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("missing path %s", p)
		}
	}
}
