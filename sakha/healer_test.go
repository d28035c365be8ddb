package sakha

import (
	"strings"
	"testing"
)

func newTestHealer(t *testing.T) *Healer {
	t.Helper()
	return NewHealer(DefaultConfig(), nil, nil)
}

func TestHealer_HealText(t *testing.T) {
	h := newTestHealer(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "shattered word reassembled",
			input: "о ҕ о л о р",
			want:  "оҕолор",
		},
		{
			name:  "normalization feeds repair",
			input: "о 6 о л о р",
			want:  "оҕолор",
		},
		{
			name:  "wide gap survives as word boundary",
			input: "бу  кинигэ",
			want:  "бу кинигэ",
		},
		{
			name:  "boundary shields the following word",
			input: "о 6 о л о р  привет",
			want:  "оҕолор привет",
		},
		{
			name:  "ordinary words untouched",
			input: "оҕолор привет",
			want:  "оҕолор привет",
		},
		{
			name:  "native hyphen fragments joined",
			input: "оҕо-лор",
			want:  "оҕолор",
		},
		{
			name:  "foreign hyphenation preserved",
			input: "рус-ский",
			want:  "рус-ский",
		},
		{
			name:  "compound without native evidence preserved",
			input: "кыра-балыста",
			want:  "кыра-балыста",
		},
		{
			name:  "whitespace collapsed",
			input: "а\tб\n\nв",
			want:  "а б в",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.HealText(tt.input)
			if got != tt.want {
				t.Errorf("HealText(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if strings.Contains(got, boundaryMarker) {
				t.Errorf("HealText(%q) leaked the boundary sentinel: %q", tt.input, got)
			}
		})
	}
}

func TestHealer_HealTextIdempotent(t *testing.T) {
	h := newTestHealer(t)

	inputs := []string{
		"о ҕ о л о р",
		"о 6 о л о р  привет",
		"бу  кинигэ",
		"оҕо-лор",
		"кыра-балыста",
	}
	for _, input := range inputs {
		once := h.HealText(input)
		twice := h.HealText(once)
		if twice != once {
			t.Errorf("HealText(HealText(%q)) = %q, want %q", input, twice, once)
		}
	}
}

func TestHealer_HealTextDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HealerEnabled = false
	h := NewHealer(cfg, nil, nil)

	input := "о 6 о л о р"
	if got := h.HealText(input); got != input {
		t.Errorf("HealText(%q) with healer disabled = %q, want input unchanged", input, got)
	}
}

func TestHealer_RepairBrokenWords(t *testing.T) {
	h := newTestHealer(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "run of single letters collapses",
			input: "о ҕ о л о р",
			want:  "оҕолор",
		},
		{
			name:  "plain letters collapse too",
			input: "б а л ы к",
			want:  "балык",
		},
		{
			name:  "double space splits the run",
			input: "о ҕ о  л о р",
			want:  "оҕо  лор",
		},
		{
			name:  "singles never glue onto neighboring words",
			input: "бар о ҕ тут",
			want:  "бар оҕ тут",
		},
		{
			name:  "newline separated singles stay apart",
			input: "о\nҕ",
			want:  "о\nҕ",
		},
		{
			name:  "word pair untouched",
			input: "бу кинигэ",
			want:  "бу кинигэ",
		},
		{
			name:  "wide gap untouched",
			input: "бу  кинигэ",
			want:  "бу  кинигэ",
		},
		{
			name:  "lone letter untouched",
			input: "о",
			want:  "о",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.RepairBrokenWords(tt.input, 0)
			if got != tt.want {
				t.Errorf("RepairBrokenWords(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHealer_RepairLengthBound(t *testing.T) {
	h := newTestHealer(t)

	// 26 merged letters exceed the bound, so the run stays shattered.
	long := strings.TrimSpace(strings.Repeat("а ", 26))
	if got := h.RepairBrokenWords(long, 0); got != long {
		t.Errorf("RepairBrokenWords(%q) = %q, want run rejected", long, got)
	}

	// An anchor letter lifts the bound.
	anchored := strings.TrimSpace(strings.Repeat("ө ", 26))
	want := strings.Repeat("ө", 26)
	if got := h.RepairBrokenWords(anchored, 0); got != want {
		t.Errorf("RepairBrokenWords(%q) = %q, want %q", anchored, got, want)
	}
}

func TestHealer_RepairConsonantBound(t *testing.T) {
	h := newTestHealer(t)

	input := "к т п с т к п р с т"
	if got := h.RepairBrokenWords(input, 0); got != input {
		t.Errorf("RepairBrokenWords(%q) = %q, want run rejected", input, got)
	}
}

func TestHealer_RepairRespectsNoMerge(t *testing.T) {
	list := LoadExceptions("", nil)
	list.add(ExceptionEntry{Pattern: "оҕо", Action: ActionNoMerge})
	h := NewHealer(DefaultConfig(), list, nil)

	input := "о ҕ о"
	if got := h.RepairBrokenWords(input, 0); got != input {
		t.Errorf("RepairBrokenWords(%q) = %q, want no-merge pattern respected", input, got)
	}

	// Without the entry the same run merges.
	control := newTestHealer(t)
	if got := control.RepairBrokenWords(input, 0); got != "оҕо" {
		t.Errorf("RepairBrokenWords(%q) = %q, want %q", input, got, "оҕо")
	}
}

func TestHealer_ResolveHyphens(t *testing.T) {
	h := newTestHealer(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "anchor plus suffix fragments join",
			input: "оҕо-лор",
			want:  "оҕолор",
		},
		{
			name:  "line break between fragments",
			input: "оҕо-\nлор",
			want:  "оҕолор",
		},
		{
			name:  "diphthong counts as native evidence",
			input: "уол-лар",
			want:  "уоллар",
		},
		{
			name:  "foreign fragments keep the hyphen",
			input: "рус-ский",
			want:  "рус-ский",
		},
		{
			name:  "one native side is not enough",
			input: "кыра-балыста",
			want:  "кыра-балыста",
		},
		{
			name:  "no hyphen",
			input: "оҕолор",
			want:  "оҕолор",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.ResolveHyphens(tt.input)
			if got != tt.want {
				t.Errorf("ResolveHyphens(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHealer_Boundaries(t *testing.T) {
	h := newTestHealer(t)

	protected := h.ProtectBoundaries("бу  кинигэ")
	want := "бу " + boundaryMarker + " кинигэ"
	if protected != want {
		t.Errorf("ProtectBoundaries(%q) = %q, want %q", "бу  кинигэ", protected, want)
	}

	restored := h.RestoreBoundaries(protected)
	if restored != "бу кинигэ" {
		t.Errorf("RestoreBoundaries(%q) = %q, want %q", protected, restored, "бу кинигэ")
	}
}
