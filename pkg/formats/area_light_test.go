package formats

import (
	"errors"
	"strings"
	"testing"

	"github.com/Kuruyia/sinjoh/pkg/nds"
	"github.com/Kuruyia/sinjoh/pkg/record"
)

const testAreaLight = "21600,\r\n" +
	"1,28,28,31,0,-4096,-1000,\r\n" +
	"0,\r\n" +
	"1,5,5,5,8192,0,0,\r\n" +
	"0,0,0,0,0,0,0,\r\n" +
	"20,20,20,\r\n" +
	"10,10,10,\r\n" +
	"31,31,31,\r\n" +
	"0,0,0,\r\n" +
	"\r\n" +
	"43200\n" +
	"1,31,0,0,0,0,4096\n" +
	"0\n" +
	"0\n" +
	"0\n" +
	"1,2,3\n" +
	"4,5,6\n" +
	"7,8,9\n" +
	"10,11,12\n" +
	"EOF\n" +
	"garbage after the end marker\n"

func TestParseAreaLight(t *testing.T) {
	a, err := ParseAreaLight([]byte(testAreaLight))
	if err != nil {
		t.Fatalf("ParseAreaLight failed: %v", err)
	}
	if len(a.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(a.Blocks))
	}

	b := a.Blocks[0]
	if b.EndTime != 21600 {
		t.Errorf("expected end time 21600, got %d", b.EndTime)
	}
	l0 := b.Lights[0]
	if !l0.Enabled || l0.Color != (nds.RGB555{R: 28, G: 28, B: 31}) {
		t.Errorf("unexpected light 0 %+v", l0)
	}
	if l0.Direction != (nds.Vec3Fx16{X: 0, Y: -4096, Z: -1000}) {
		t.Errorf("unexpected light 0 direction %+v", l0.Direction)
	}
	if b.Lights[1].Enabled || b.Lights[3].Enabled {
		t.Error("lights 1 and 3 should be disabled")
	}
	if b.Lights[2].Direction.X != 8192 {
		t.Errorf("expected raw direction 8192, got %d", b.Lights[2].Direction.X)
	}
	if b.DiffuseColor != (nds.RGB555{R: 20, G: 20, B: 20}) || b.SpecularColor != (nds.RGB555{R: 31, G: 31, B: 31}) {
		t.Errorf("unexpected colours %+v", b)
	}

	b = a.Blocks[1]
	if b.EndTime != 43200 || b.EmissionColor != (nds.RGB555{R: 10, G: 11, B: 12}) {
		t.Errorf("unexpected second block %+v", b)
	}

	a.Fix()
	if got := a.Blocks[0].Lights[2].Direction.X; got != nds.Fx16One {
		t.Errorf("Fix: expected clamp to one, got %v", got)
	}
	if got := a.Blocks[0].Lights[0].Direction.Y; got != nds.Fx16NegOne {
		t.Errorf("Fix: expected -1 to stay, got %v", got)
	}
}

func TestParseAreaLight_Errors(t *testing.T) {
	block := strings.Split(strings.TrimSuffix(testAreaLight[:strings.Index(testAreaLight, "\r\n\r\n")], "\r\n"), "\r\n")
	withLine := func(i int, line string) string {
		lines := append([]string(nil), block...)
		lines[i] = line
		return strings.Join(lines, "\n")
	}

	tests := []struct {
		name     string
		text     string
		wantErr  error
		wantLine int
		wantKind BlockLine
	}{
		{"early empty line", withLine(3, ""), ErrEarlyEmptyLine, 4, LineLight2},
		{"bad end time", withLine(0, "noon,"), ErrMalformedParameter, 1, LineEndTime},
		{"bad colour", withLine(5, "20,x,20"), ErrMalformedParameter, 6, LineDiffuseColor},
		{"bad direction", withLine(1, "1,1,1,1,0,0,40000"), ErrMalformedParameter, 2, LineLight0},
		{"short light", withLine(1, "1,1,1,1,0"), ErrNotEnoughParameters, 2, LineLight0},
		{"short colour", withLine(8, "1,2"), ErrNotEnoughParameters, 9, LineEmissionColor},
		{"channel above 31", withLine(6, "32,0,0"), record.ErrOutOfRange, 7, LineAmbientColor},
		{"unterminated block", strings.Join(block[:4], "\n") + "\nEOF", ErrUnterminatedBlock, 5, LineLight3},
		{"truncated block", strings.Join(block[:4], "\n"), ErrUnterminatedBlock, 4, LineLight3},
		{"missing end marker", strings.Join(block, "\n") + "\n\n", ErrMissingEndMarker, 10, LineEndTime},
		{"complete block without end marker", strings.Join(block, "\n"), ErrMissingEndMarker, 9, LineEndTime},
		{"complete block and newline without end marker", strings.Join(block, "\n") + "\n", ErrMissingEndMarker, 9, LineEndTime},
		{"partial trailing block without end marker", strings.Join(block, "\n") + "\n\n" + strings.Join(block[:3], "\n"),
			ErrUnterminatedBlock, 13, LineLight2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAreaLight([]byte(tt.text))
			if a != nil {
				t.Error("expected no value on error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var lineErr *LineError
			if !errors.As(err, &lineErr) {
				t.Fatalf("expected *LineError, got %T", err)
			}
			if lineErr.Line != tt.wantLine || lineErr.Kind != tt.wantKind {
				t.Errorf("expected line %d (%s), got line %d (%s)", tt.wantLine, tt.wantKind, lineErr.Line, lineErr.Kind)
			}
		})
	}

	if _, err := ParseAreaLight([]byte{0xFF, '\n'}); !errors.Is(err, record.ErrInvalidValue) {
		t.Errorf("invalid UTF-8: expected ErrInvalidValue, got %v", err)
	}
}
