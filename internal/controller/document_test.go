package controller

import (
	"testing"

	"github.com/gespro/gespro-api/internal/model"
)

func userWithId(id string) model.User {
	return model.User{BaseModel: model.BaseModel{ID: id}}
}

func TestMissingSignerIds(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		users     []model.User
		want      []string
	}{
		{"All signers exist", []string{"a", "b"}, []model.User{userWithId("a"), userWithId("b")}, nil},
		{"One unknown signer", []string{"a", "b"}, []model.User{userWithId("a")}, []string{"b"}},
		{"All unknown", []string{"a", "b"}, nil, []string{"a", "b"}},
		{"Duplicate unknown id reported once", []string{"a", "a"}, nil, []string{"a"}},
		{"Empty request", nil, []model.User{userWithId("a")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := missingSignerIds(tt.requested, tt.users)
			if len(got) != len(tt.want) {
				t.Fatalf("missingSignerIds() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("missingSignerIds()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
