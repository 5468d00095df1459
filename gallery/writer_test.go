package gallery

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"metagallery/types"
)

var footerTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestWriter_Rows(t *testing.T) {
	var buf bytes.Buffer
	g := NewWriter(&buf, "/art/prompts/generated/gallery_prompts_x.txt")

	castle := types.DecodedRecord{
		Prompt: "a castle <on> a hill", Width: 512, Height: 768, Steps: "30", Scale: "7.5",
		UpscaleFactor: "no",
	}
	knight := types.DecodedRecord{
		Prompt: "portrait of a knight", Width: 512, Height: 512, Steps: "50", Scale: "10",
		UpscaleUsed: true, UpscaleFactor: "4x via GFPGAN",
		InitImage: "../samples/knight.jpg", InitImagePath: "/art/samples/knight.jpg", InitStrength: "0.6",
	}
	if err := g.Add("/images", "castle.jpg", castle, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Add("/images", "knight.png", knight, 2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Close(1500*time.Millisecond, footerTime); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if g.Rows() != 2 {
		t.Fatalf("Rows=%d, want 2", g.Rows())
	}

	doc := parse(t, buf.String())
	if got := doc.Find("title").Text(); got != "AI Art Metadata Explorer" {
		t.Fatalf("title=%q", got)
	}
	if href, _ := doc.Find(`link[rel="stylesheet"]`).Attr("href"); href != "gallery.css" {
		t.Fatalf("stylesheet=%q", href)
	}
	if href, _ := doc.Find(".intro .small a").Attr("href"); href != "/art/prompts/generated/gallery_prompts_x.txt" {
		t.Fatalf("prompt file link=%q", href)
	}

	rows := doc.Find(".flex-column .flex-row")
	if rows.Length() != 2 {
		t.Fatalf("rows=%d, want 2", rows.Length())
	}

	first := rows.Eq(0)
	if src, _ := first.Find("img").Attr("src"); src != "/images/castle.jpg" {
		t.Fatalf("img src=%q", src)
	}
	if h, _ := first.Find("img").Attr("height"); h != "192" {
		t.Fatalf("img height=%q", h)
	}
	if got := strings.TrimSpace(first.Find(".flex-info > div").First().Text()); got != "a castle <on> a hill" {
		t.Fatalf("prompt=%q", got)
	}
	if first.Find(".init").Length() != 0 {
		t.Fatalf("unexpected init image line")
	}
	if got := strings.TrimSpace(first.Find(".bottom").Text()); got != "width: 512 | height: 768 | steps: 30 | scale: 7.5 | upscaled: no | #1" {
		t.Fatalf("settings=%q", got)
	}

	second := rows.Eq(1)
	init := second.Find(".init")
	if href, _ := init.Find("a").Attr("href"); href != "/art/samples/knight.jpg" {
		t.Fatalf("init href=%q", href)
	}
	if got := init.Text(); got != "knight.jpg used as init image @ 0.6 strength" {
		t.Fatalf("init line=%q", got)
	}
	if !strings.Contains(second.Find(".bottom").Text(), "upscaled: 4x via GFPGAN | #2") {
		t.Fatalf("settings missing upscale info")
	}

	if got := strings.TrimSpace(doc.Find(".footer").Text()); got != "Generated in 1500 milliseconds on 2026-03-14 at 15:09:26" {
		t.Fatalf("footer=%q", got)
	}
}

func TestWriter_EscapesPrompt(t *testing.T) {
	var buf bytes.Buffer
	g := NewWriter(&buf, "p.txt")
	rec := types.DecodedRecord{Prompt: `<script>alert("x")</script>`, UpscaleFactor: "no"}
	if err := g.Add(".", "a.png", rec, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Close(0, footerTime); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Fatalf("prompt not escaped:\n%s", buf.String())
	}
}

func TestWriter_EmptyGalleryIsComplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.html")
	g, err := Create(path, "prompts/generated/p.txt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := g.Close(0, footerTime); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := g.Close(0, footerTime); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	html := string(data)
	if !strings.HasPrefix(html, "<!DOCTYPE html>") || !strings.HasSuffix(html, "</html>\n") {
		t.Fatalf("incomplete document:\n%s", html)
	}

	doc := parse(t, html)
	if doc.Find(".flex-row").Length() != 0 {
		t.Fatalf("empty gallery has rows")
	}
	if doc.Find(".footer").Length() != 1 {
		t.Fatalf("footer missing")
	}
}

func TestSettings(t *testing.T) {
	rec := types.DecodedRecord{Width: 576, Height: 576, UpscaleFactor: "no"}
	if got, want := Settings(rec, 3), "width: 576 | height: 576 | steps:  | scale:  | upscaled: no | #3"; got != want {
		t.Fatalf("Settings=%q, want %q", got, want)
	}
}

func TestWriter_LinksSurviveEscaping(t *testing.T) {
	var buf bytes.Buffer
	g := NewWriter(&buf, `C:\art\prompts\generated\p.txt`)

	withInit := types.DecodedRecord{
		Prompt: "a cat", UpscaleFactor: "no",
		InitImagePath: `C:\art\samples\x.png`, InitStrength: "0.5",
	}
	if err := g.Add("C:/images", "cat.png", withInit, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Add(".", "12:30.png", types.DecodedRecord{Prompt: "noon", UpscaleFactor: "no"}, 2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Add("/images", "my castle.png", types.DecodedRecord{Prompt: "castle", UpscaleFactor: "no"}, 3); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Close(0, footerTime); err != nil {
		t.Fatalf("Close: %v", err)
	}

	html := buf.String()
	if strings.Contains(html, "ZgotmplZ") {
		t.Fatalf("link was filtered out:\n%s", html)
	}

	doc := parse(t, html)
	if href, _ := doc.Find(".intro .small a").Attr("href"); href != "file:///C:/art/prompts/generated/p.txt" {
		t.Fatalf("prompt file link=%q", href)
	}

	rows := doc.Find(".flex-row")
	cases := []struct {
		row  int
		want string
	}{
		{0, "file:///C:/images/cat.png"},
		{1, "./12:30.png"},
		{2, "/images/my%20castle.png"},
	}
	for _, tc := range cases {
		row := rows.Eq(tc.row)
		if href, _ := row.Find("a").First().Attr("href"); href != tc.want {
			t.Errorf("row %d href=%q, want %q", tc.row, href, tc.want)
		}
		if src, _ := row.Find("img").Attr("src"); src != tc.want {
			t.Errorf("row %d src=%q, want %q", tc.row, src, tc.want)
		}
	}

	init := rows.Eq(0).Find(".init")
	if href, _ := init.Find("a").Attr("href"); href != "file:///C:/art/samples/x.png" {
		t.Fatalf("init href=%q", href)
	}
	if got := init.Find("a").Text(); got != "x.png" {
		t.Fatalf("init name=%q", got)
	}
}

func TestLinkURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"images/cat.png", "images/cat.png"},
		{"/art/a b.png", "/art/a%20b.png"},
		{"12:30.png", "./12:30.png"},
		{"C:/images/cat.png", "file:///C:/images/cat.png"},
		{`d:\out\x.png`, "file:///d:/out/x.png"},
		{`\\nas\share\x.png`, "file://nas/share/x.png"},
	}
	for _, tc := range cases {
		if got := string(linkURL(tc.in)); got != tc.want {
			t.Errorf("linkURL(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
