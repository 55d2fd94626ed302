package textproc

import (
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

const bengaliSentence = "দ্বিতীয় লাইন এখানে আছে যা পর্যাপ্ত দীর্ঘ একটি সম্পূর্ণ বাক্য।"

func TestNormalize(t *testing.T) {
	long1 := "This line is long enough to be treated as a complete sentence."
	long2 := "Another line that easily passes the fifty character threshold."

	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "no lines",
			lines: nil,
			want:  []string{},
		},
		{
			name:  "fragments then long bengali line",
			lines: []string{"Hello", "World, this continues.", "", bengaliSentence},
			want:  []string{"Hello World, this continues.", bengaliSentence},
		},
		{
			name:  "all fragments merge into one paragraph",
			lines: []string{"  one ", "two", "three  "},
			want:  []string{"one two three"},
		},
		{
			name:  "complete lines are emitted one to one",
			lines: []string{long1, long2},
			want:  []string{long1, long2},
		},
		{
			name:  "complete line flushes buffer first",
			lines: []string{"Heading", long1, "tail", "end"},
			want:  []string{"Heading", long1, "tail end"},
		},
		{
			name:  "blank line does not end a buffer",
			lines: []string{"first", "   ", "\t", "second"},
			want:  []string{"first second"},
		},
		{
			name:  "arabic line dropped without flushing",
			lines: []string{"before", "مرحبا بالعالم", "after"},
			want:  []string{"before after"},
		},
		{
			name:  "arabic supplement and extended-a are noise",
			lines: []string{"x ݐ", "y ࢠ", "keep"},
			want:  []string{"keep"},
		},
		{
			name:  "only arabic yields nothing",
			lines: []string{"بسم الله الرحمن الرحيم وهذا سطر طويل جدا يتجاوز خمسين حرفا بالتأكيد"},
			want:  []string{},
		},
		{
			name:  "exactly fifty characters is complete",
			lines: []string{"frag", strings.Repeat("a", 50)},
			want:  []string{"frag", strings.Repeat("a", 50)},
		},
		{
			name:  "forty nine characters is a fragment",
			lines: []string{"frag", strings.Repeat("a", 49)},
			want:  []string{"frag " + strings.Repeat("a", 49)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.lines)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeLengthCountsCharacters(t *testing.T) {
	if n := utf8.RuneCountInString(bengaliSentence); n < DefaultCompleteLineLength {
		t.Fatalf("fixture has %d characters, want at least %d", n, DefaultCompleteLineLength)
	}
	// 30 Bengali characters are well over 50 bytes but remain a fragment.
	short := strings.Repeat("ক", 30)
	got := Normalize([]string{short, "x"})
	want := []string{short + " x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizerCustomThreshold(t *testing.T) {
	n := &Normalizer{CompleteLineLength: 5}
	got := n.Normalize([]string{"ab", "abcde", "مرحبا", "c"})
	want := []string{"ab", "abcde", "مرحبا", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeIdempotentOnCompleteParagraphs(t *testing.T) {
	lines := []string{
		"frag one", "frag two that keeps going", "and going on and on until it is long",
		"A standalone sentence that is comfortably over fifty characters long.",
	}
	first := Normalize(lines)
	for _, p := range first {
		if utf8.RuneCountInString(p) < DefaultCompleteLineLength {
			t.Fatalf("fixture paragraph %q is shorter than the threshold", p)
		}
	}
	second := Normalize(first)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass = %q, want %q", second, first)
	}
}

var alphabets = [][]rune{
	[]rune("abcdefghijklmnopqrstuvwxyz ,.:-"),
	[]rune("অআইকখগঘচছজ "),
	[]rune("مرحبابالعالم "),
	[]rune(" \t"),
}

func randomLine(r *rand.Rand) string {
	alpha := alphabets[r.IntN(len(alphabets))]
	n := r.IntN(80)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteRune(alpha[r.IntN(len(alpha))])
	}
	return b.String()
}

func TestNormalizeInvariants(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		lines := make([]string, r.IntN(20))
		for j := range lines {
			lines[j] = randomLine(r)
		}
		for _, p := range Normalize(lines) {
			if p == "" {
				t.Fatalf("empty paragraph from %q", lines)
			}
			if p != strings.TrimSpace(p) {
				t.Fatalf("untrimmed paragraph %q", p)
			}
			if strings.IndexFunc(p, func(c rune) bool { return unicode.Is(ArabicScript, c) }) >= 0 {
				t.Fatalf("paragraph %q contains arabic script", p)
			}
		}
	}
}

func TestNormalizeLongLinesOneToOne(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 200; i++ {
		var lines, want []string
		for j := r.IntN(10); j >= 0; j-- {
			switch r.IntN(3) {
			case 0:
				lines = append(lines, "   ")
			default:
				l := strings.Repeat("word ", 10+r.IntN(10)) + "end"
				lines = append(lines, "  "+l)
				want = append(want, l)
			}
		}
		got := Normalize(lines)
		if len(want) == 0 {
			want = []string{}
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Normalize(%q) = %q, want %q", lines, got, want)
		}
	}
}

func TestNormalizeShortLinesMergeToOne(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 1))
	for i := 0; i < 200; i++ {
		var lines []string
		for j := 1 + r.IntN(10); j > 0; j-- {
			lines = append(lines, strings.Repeat("ab", 1+r.IntN(20)))
		}
		got := Normalize(lines)
		want := []string{strings.TrimSpace(strings.Join(lines, " "))}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Normalize(%q) = %q, want %q", lines, got, want)
		}
	}
}
