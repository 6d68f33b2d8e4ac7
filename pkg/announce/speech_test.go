package announce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDefaultTemplate(t *testing.T) {
	tests := []struct {
		name string
		data SpeechData
		want string
	}{
		{
			name: "WithMaterial",
			data: SpeechData{Supplier: "Acme", Material: "Gravel", Minutes: 15},
			want: "Acme truck with Gravel, arriving in 15 minutes.",
		},
		{
			name: "WithoutMaterial",
			data: SpeechData{Supplier: "Acme", Minutes: 5},
			want: "Acme truck, arriving in 5 minutes.",
		},
		{
			name: "ArrivingNow",
			data: SpeechData{Supplier: "Acme", Material: "Sand", Minutes: 0},
			want: "Acme truck with Sand, arriving now.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render("", tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	got, err := Render("{{.Supplier}} at {{.Arrival}}", SpeechData{Supplier: "Acme", Arrival: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, "Acme at 10:00", got)
}

func TestRenderNormalizesWhitespace(t *testing.T) {
	got, err := Render("{{.Supplier}}   truck\n arriving", SpeechData{Supplier: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Acme truck arriving", got)
}

func TestRenderBrokenTemplate(t *testing.T) {
	_, err := Render("{{.Broken", SpeechData{})
	assert.Error(t, err)
}

func TestRenderUnknownField(t *testing.T) {
	_, err := Render("{{.DoesNotExist}}", SpeechData{})
	assert.Error(t, err)
}
