package assistant

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()
	cases := []struct {
		question string
		want     Intent
	}{
		{question: "Dimana anak saya?", want: IntentLocation},
		{question: "di mana posisi Aisyah sekarang", want: IntentLocation},
		{question: "Where is my kid?", want: IntentLocation},
		{question: "Siapa yang telepon anak saya tadi?", want: IntentCallLog},
		{question: "show recent phone calls", want: IntentCallLog},
		{question: "Tolong analisis media terbaru", want: IntentMediaAnalysis},
		{question: "cek foto yang dikirim", want: IntentMediaAnalysis},
		{question: "Apakah anak saya baik-baik saja hari ini?", want: IntentNone},
		{question: "   ", want: IntentNone},
		{question: "recall the weekend", want: IntentNone},
	}
	for _, tc := range cases {
		t.Run(tc.question, func(t *testing.T) {
			if got := Classify(tc.question); got != tc.want {
				t.Fatalf("Classify(%q) = %q, want %q", tc.question, got, tc.want)
			}
		})
	}
}

func TestClassifyPrefersLocationOverCallLog(t *testing.T) {
	t.Parallel()
	question := "Dimana lokasi anak saat terakhir telepon?"
	if got := Classify(question); got != IntentLocation {
		t.Fatalf("expected location to win over call log, got %q", got)
	}
}

func TestClassifyPrefersCallLogOverMedia(t *testing.T) {
	t.Parallel()
	if got := Classify("analisis media dan panggilan"); got != IntentCallLog {
		t.Fatalf("expected call log to win over media, got %q", got)
	}
}
