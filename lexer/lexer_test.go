package lexer_test

import (
	"testing"

	"github.com/lookbusy1344/cs382asm/lexer"
	"github.com/lookbusy1344/cs382asm/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := lexer.TokenizeAll([]byte(src))
	if err != nil {
		t.Fatalf("TokenizeAll(%q) returned error: %v", src, err)
	}
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []token.Kind, want []token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexer_Punctuation(t *testing.T) {
	got := kinds(t, "[],:")
	want := []token.Kind{token.LBracket, token.RBracket, token.Comma, token.Colon, token.Eof}
	assertKinds(t, got, want)
}

func TestLexer_SectionDirectives(t *testing.T) {
	toks, err := lexer.TokenizeAll([]byte(".text\n.data\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.SectionDirective || toks[0].Section != token.SectionText {
		t.Errorf(".text: got %+v", toks[0])
	}
	if toks[2].Kind != token.SectionDirective || toks[2].Section != token.SectionData {
		t.Errorf(".data: got %+v", toks[2])
	}
}

func TestLexer_DataTypeDirectives(t *testing.T) {
	toks, err := lexer.TokenizeAll([]byte(".char .string .1b .2b .4b .8b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.DataType{token.TypeChar, token.TypeString, token.TypeByte1, token.TypeByte2, token.TypeByte4, token.TypeByte8}
	var got []token.DataType
	for _, tok := range toks {
		if tok.Kind == token.DataTypeDirective {
			got = append(got, tok.DataType)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d directive tokens, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("directive %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexer_Mnemonics(t *testing.T) {
	got := kinds(t, "add sub mul div mod asr lsl and orr neg swap halt b cbz cbnz")
	want := []token.Kind{
		token.Add, token.Whitespace,
		token.Sub, token.Whitespace,
		token.Mul, token.Whitespace,
		token.Div, token.Whitespace,
		token.Mod, token.Whitespace,
		token.Asr, token.Whitespace,
		token.Lsl, token.Whitespace,
		token.And, token.Whitespace,
		token.Orr, token.Whitespace,
		token.Neg, token.Whitespace,
		token.Swap, token.Whitespace,
		token.Halt, token.Whitespace,
		token.B, token.Whitespace,
		token.CBZ, token.Whitespace,
		token.CBNZ,
		token.Eof,
	}
	assertKinds(t, got, want)
}

func TestLexer_LoadStoreWidths(t *testing.T) {
	toks, err := lexer.TokenizeAll([]byte("ld lds ld1 ld1s ld2 ld2s ld4 ld4s st st1 st2 st4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	type wantLd struct {
		width   uint8
		signExt bool
	}
	wantLds := []wantLd{
		{8, false}, {8, true},
		{1, false}, {1, true},
		{2, false}, {2, true},
		{4, false}, {4, true},
	}
	var gotLds []wantLd
	var gotStWidths []uint8
	for _, tok := range toks {
		switch tok.Kind {
		case token.Ld:
			gotLds = append(gotLds, wantLd{tok.Width, tok.SignExt})
		case token.St:
			gotStWidths = append(gotStWidths, tok.Width)
		}
	}
	if len(gotLds) != len(wantLds) {
		t.Fatalf("got %d Ld tokens, want %d", len(gotLds), len(wantLds))
	}
	for i := range wantLds {
		if gotLds[i] != wantLds[i] {
			t.Errorf("ld %d: got %+v, want %+v", i, gotLds[i], wantLds[i])
		}
	}
	wantStWidths := []uint8{8, 1, 2, 4}
	if len(gotStWidths) != len(wantStWidths) {
		t.Fatalf("got %d St tokens, want %d", len(gotStWidths), len(wantStWidths))
	}
	for i := range wantStWidths {
		if gotStWidths[i] != wantStWidths[i] {
			t.Errorf("st %d: got %d, want %d", i, gotStWidths[i], wantStWidths[i])
		}
	}
}

func TestLexer_Registers(t *testing.T) {
	toks, err := lexer.TokenizeAll([]byte("r0 r1 r7 rzr"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []uint8{0, 1, 7, token.RegZero}
	var got []uint8
	for _, tok := range toks {
		if tok.Kind == token.Register {
			got = append(got, tok.Reg)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d register tokens, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("register %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLexer_LabelsAndDefs(t *testing.T) {
	toks, err := lexer.TokenizeAll([]byte("loop: b loop\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.LabelDef || toks[0].Name != "loop" {
		t.Errorf("expected LabelDef(loop), got %+v", toks[0])
	}
	var labelTok token.Token
	for _, tok := range toks {
		if tok.Kind == token.Label {
			labelTok = tok
		}
	}
	if labelTok.Name != "loop" {
		t.Errorf("expected Label(loop), got %+v", labelTok)
	}
}

func TestLexer_Numbers(t *testing.T) {
	toks, err := lexer.TokenizeAll([]byte("10 0xFF 0b101"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []uint64{10, 0xFF, 0b101}
	var got []uint64
	for _, tok := range toks {
		if tok.Kind == token.Imm {
			got = append(got, tok.Imm)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d imm tokens, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("imm %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLexer_NumberOverflowIsFatal(t *testing.T) {
	if _, err := lexer.TokenizeAll([]byte("0xFFFFFFFFFFFFFFFFFF")); err == nil {
		t.Fatal("expected overflow error, got nil")
	}
}

func TestLexer_CharLiteral(t *testing.T) {
	toks, err := lexer.TokenizeAll([]byte(`'a' '\n' '\0'`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{'a', '\n', 0}
	var got []byte
	for _, tok := range toks {
		if tok.Kind == token.Char {
			got = append(got, tok.Ch)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d char tokens, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("char %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLexer_StringLiteral(t *testing.T) {
	toks, err := lexer.TokenizeAll([]byte(`"hi\n"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.String || string(toks[0].Str) != "hi\n" {
		t.Errorf("got %+v", toks[0])
	}
}

func TestLexer_UnterminatedStringIsFatal(t *testing.T) {
	if _, err := lexer.TokenizeAll([]byte(`"hi`)); err == nil {
		t.Fatal("expected unterminated string error, got nil")
	}
}

func TestLexer_Comments(t *testing.T) {
	got := kinds(t, "halt // trailing comment\nhalt /* block\ncomment */ halt\n")
	want := []token.Kind{
		token.Halt, token.Whitespace, token.Newline,
		token.Halt, token.Whitespace, token.Whitespace, token.Halt, token.Newline,
		token.Eof,
	}
	assertKinds(t, got, want)
}

func TestLexer_UnknownByteIsFatal(t *testing.T) {
	if _, err := lexer.TokenizeAll([]byte("@")); err == nil {
		t.Fatal("expected error for unknown byte, got nil")
	}
}

func TestLexer_WhitespaceAndNewlinePreserved(t *testing.T) {
	got := kinds(t, "halt \n")
	want := []token.Kind{token.Halt, token.Whitespace, token.Newline, token.Eof}
	assertKinds(t, got, want)
}

func TestLexer_Determinism(t *testing.T) {
	src := ".text\nloop: add r1, r2, 0x5\nb loop\nhalt\n"
	first := kinds(t, src)
	second := kinds(t, src)
	assertKinds(t, second, first)
}

func TestLexer_PositionsMonotonic(t *testing.T) {
	toks, err := lexer.TokenizeAll([]byte("add r1, r2, 5\nhalt\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(toks); i++ {
		prev, cur := toks[i-1].Pos, toks[i].Pos
		if cur.Line < prev.Line || (cur.Line == prev.Line && cur.Col < prev.Col) {
			t.Errorf("position regressed at token %d: %s -> %s", i, prev, cur)
		}
	}
}
