package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/team-schedule/internal/calendar"
	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/layout"
	"alcyxob/team-schedule/internal/render"
)

func date(s string) time.Time {
	t, err := calendar.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestDriver(t *testing.T, emitter Emitter) *Driver {
	t.Helper()
	d, err := NewDriver(Config{
		Options: Options{Title: "Team", FilePrefix: "team-schedule", WeeksPerPage: 2},
		Engine: &layout.Engine{
			Styles:  layout.DefaultStyles(),
			Metrics: layout.DefaultMetrics(),
			Times:   ClockFormatter{},
			Labels:  TypeLabels{},
			Scripts: layout.HebrewDetector(),
		},
		Emitter: emitter,
	})
	require.NoError(t, err)
	return d
}

func filter(doc *render.Document, keep func(render.Instruction) bool) []render.Instruction {
	var out []render.Instruction
	for _, in := range doc.Instructions {
		if keep(in) {
			out = append(out, in)
		}
	}
	return out
}

func texts(doc *render.Document) []string {
	var out []string
	for _, in := range filter(doc, func(in render.Instruction) bool { return in.Kind == render.KindText }) {
		out = append(out, in.Text)
	}
	return out
}

func ofKind(k render.Kind) func(render.Instruction) bool {
	return func(in render.Instruction) bool { return in.Kind == k }
}

func TestBuildSingleDayRange(t *testing.T) {
	d := newTestDriver(t, nil)

	doc, err := d.Build(Request{Start: date("2024-06-03"), End: date("2024-06-03")})
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Pages())
	assert.Len(t, filter(doc, ofKind(render.KindStrokeRect)), 7)

	dimmed := filter(doc, func(in render.Instruction) bool {
		return in.Kind == render.KindRect && in.Color == render.Gray && in.Opacity == 0.25
	})
	assert.Len(t, dimmed, 6)

	got := texts(doc)
	assert.Equal(t, "Team: Jun 3, 2024 - Jun 3, 2024", got[0])
	assert.Subset(t, got, []string{"Sun", "Mon", "Sat", "2", "3", "8"})
}

func TestBuildDayOffSuppressesSlots(t *testing.T) {
	d := newTestDriver(t, nil)
	sessions := []domain.Session{
		{Date: "2024-06-05", Type: domain.TypePractice, StartTime: "09:00", Title: "Shooting"},
		{Date: "2024-06-05", Type: domain.TypeDayOff},
	}

	doc, err := d.Build(Request{Sessions: sessions, Start: date("2024-06-02"), End: date("2024-06-08")})
	require.NoError(t, err)

	got := texts(doc)
	assert.Contains(t, got, layout.DayOffLabel)
	assert.NotContains(t, got, "Shooting")
	assert.NotContains(t, got, "Practice")
	assert.NotContains(t, got, "9:00 AM")

	tints := filter(doc, func(in render.Instruction) bool {
		return in.Kind == render.KindRect && in.Color != render.Gray
	})
	require.Len(t, tints, 1)
	assert.Equal(t, layout.DefaultStyles()[domain.TypeDayOff].Color, tints[0].Color)
	assert.Equal(t, layout.DayOffOpacity, tints[0].Opacity)

	label := filter(doc, func(in render.Instruction) bool { return in.Text == layout.DayOffLabel })
	require.Len(t, label, 1)
	assert.Equal(t, render.AlignCenter, label[0].Align)
	assert.Equal(t, layout.DayOffOpacity, label[0].Opacity)
	assert.Equal(t, tints[0].Color, label[0].Color)

	assert.Equal(t, "Shooting", sessions[0].Title)
}

func TestBuildAMAndPMBoxes(t *testing.T) {
	d := newTestDriver(t, nil)
	sessions := []domain.Session{
		{Date: "2024-06-04", Type: domain.TypeGame, StartTime: "18:00", Title: "Home vs Eagles"},
		{Date: "2024-06-04", Type: domain.TypePractice, StartTime: "09:00", TotalMinutes: 90, HighIntensityMinutes: 20, Courts: 1},
	}

	doc, err := d.Build(Request{Sessions: sessions, Start: date("2024-06-02"), End: date("2024-06-08")})
	require.NoError(t, err)

	got := texts(doc)
	assert.Subset(t, got, []string{"9:00 AM", "Practice", "90/20m 1c", "6:00 PM", "Game", "Home vs Eagles"})

	styles := layout.DefaultStyles()
	var am, pm render.Instruction
	for _, in := range filter(doc, ofKind(render.KindRect)) {
		switch in.Color {
		case styles[domain.TypePractice].Color:
			am = in
		case styles[domain.TypeGame].Color:
			pm = in
		}
	}
	assert.Less(t, am.Y+am.H, pm.Y)
	assert.Equal(t, am.X, pm.X)
	assert.Equal(t, styles[domain.TypeGame].Alpha, pm.Opacity)

	for _, in := range filter(doc, func(in render.Instruction) bool { return in.Text == "Home vs Eagles" }) {
		assert.Equal(t, styles[domain.TypeGame].Color, in.Color)
		assert.Greater(t, in.Y, pm.Y)
		assert.Less(t, in.Y, pm.Y+pm.H)
	}
}

func TestBuildBoxTextSharesTintStyle(t *testing.T) {
	d := newTestDriver(t, nil)
	sessions := []domain.Session{
		{Date: "2024-06-04", Type: domain.TypeGame, StartTime: "18:00", Title: "Home vs Eagles"},
		{Date: "2024-06-04", Type: domain.TypePractice, StartTime: "09:00", Notes: "shooting drills"},
	}

	doc, err := d.Build(Request{Sessions: sessions, Start: date("2024-06-02"), End: date("2024-06-08")})
	require.NoError(t, err)

	styles := layout.DefaultStyles()
	for _, typ := range []domain.SessionType{domain.TypeGame, domain.TypePractice} {
		style := styles[typ]
		tints := filter(doc, func(in render.Instruction) bool {
			return in.Kind == render.KindRect && in.Color == style.Color
		})
		require.Len(t, tints, 1, typ)
		box := tints[0]

		inside := filter(doc, func(in render.Instruction) bool {
			return in.Kind == render.KindText &&
				in.X >= box.X && in.X <= box.X+box.W &&
				in.Y > box.Y && in.Y < box.Y+box.H
		})
		require.NotEmpty(t, inside, typ)
		for _, in := range inside {
			assert.Equal(t, style.Color, in.Color, in.Text)
			assert.Equal(t, style.Alpha, in.Opacity, in.Text)
		}
	}
}

func TestBuildIgnoresSessionsOnPaddingDays(t *testing.T) {
	d := newTestDriver(t, nil)
	sessions := []domain.Session{
		{Date: "2024-06-02", Type: domain.TypeDayOff},
		{Date: "2024-06-03", Type: domain.TypePractice, StartTime: "09:00", Title: "Shooting"},
		{Date: "2024-06-08", Type: domain.TypeGame, StartTime: "15:00", Title: "Weekend final"},
	}

	doc, err := d.Build(Request{Sessions: sessions, Start: date("2024-06-03"), End: date("2024-06-03")})
	require.NoError(t, err)

	got := texts(doc)
	assert.Contains(t, got, "Shooting")
	assert.NotContains(t, got, "Weekend final")
	assert.NotContains(t, got, "Game")
	assert.NotContains(t, got, layout.DayOffLabel)

	styles := layout.DefaultStyles()
	assert.Empty(t, filter(doc, func(in render.Instruction) bool {
		return in.Kind == render.KindRect &&
			(in.Color == styles[domain.TypeGame].Color || in.Color == styles[domain.TypeDayOff].Color)
	}))
}

func TestBuildPaginatesWithHeaderSuffix(t *testing.T) {
	d := newTestDriver(t, nil)
	req := Request{Start: date("2024-06-02"), End: date("2024-06-22")}

	doc, err := d.Build(req)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Pages())
	assert.Len(t, filter(doc, ofKind(render.KindStrokeRect)), 21)
	got := texts(doc)
	assert.Contains(t, got, "Team: Jun 2, 2024 - Jun 22, 2024 (Page 1/2)")
	assert.Contains(t, got, "Team: Jun 2, 2024 - Jun 22, 2024 (Page 2/2)")

	req.WeeksPerPage = 1
	doc, err = d.Build(req)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Pages())
}

func TestBuildStaysOnPage(t *testing.T) {
	d := newTestDriver(t, nil)
	sessions := []domain.Session{
		{Date: "2024-06-01", Type: domain.TypeRecovery, StartTime: "08:00", Notes: strings.Repeat("stretch and roll out\n", 40)},
		{Date: "2024-06-30", Type: domain.TypeTravel, StartTime: "15:00", Title: "Bus to the away game in the mountains"},
	}

	doc, err := d.Build(Request{Sessions: sessions, Start: date("2024-06-01"), End: date("2024-06-30")})
	require.NoError(t, err)

	g := DefaultGeometry()
	for _, in := range doc.Instructions {
		if in.Kind == render.KindPage {
			continue
		}
		assert.GreaterOrEqual(t, in.X, 0.0)
		assert.LessOrEqual(t, in.X+in.W, g.PageWidth)
		assert.GreaterOrEqual(t, in.Y, 0.0)
		assert.LessOrEqual(t, in.Y+in.H, g.PageHeight)
	}
}

func TestBuildInvalidRequests(t *testing.T) {
	d := newTestDriver(t, nil)

	_, err := d.Build(Request{Start: date("2024-06-10"), End: date("2024-06-03")})
	assert.ErrorIs(t, err, calendar.ErrInvalidRange)

	_, err = d.Build(Request{Start: date("2024-06-03"), End: date("2024-06-10"), WeeksPerPage: -1})
	assert.ErrorIs(t, err, calendar.ErrInvalidWeeksPerPage)
}

func TestBuildIsDeterministic(t *testing.T) {
	d := newTestDriver(t, nil)
	req := Request{
		Sessions: []domain.Session{
			{Date: "2024-06-03", Type: domain.TypePractice, StartTime: "09:00", Title: "Shooting"},
			{Date: "2024-06-03", Type: domain.TypePractice, StartTime: "10:00", Title: "Second practice"},
			{Date: "2024-06-07", Type: domain.TypeMeeting, StartTime: "19:00", Notes: "film"},
		},
		Start: date("2024-06-03"),
		End:   date("2024-06-20"),
	}

	first, err := d.Build(req)
	require.NoError(t, err)
	second, err := d.Build(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotContains(t, texts(first), "Second practice")

	a, err := render.PDF{}.Render(first)
	require.NoError(t, err)
	b, err := render.PDF{}.Render(second)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestNewDriverValidation(t *testing.T) {
	_, err := NewDriver(Config{Options: Options{WeeksPerPage: 2}})
	assert.Error(t, err)

	_, err = NewDriver(Config{Engine: &layout.Engine{}})
	assert.ErrorIs(t, err, calendar.ErrInvalidWeeksPerPage)
}

func TestExport(t *testing.T) {
	var gotName, gotType string
	var gotData []byte
	d := newTestDriver(t, EmitterFunc(func(_ context.Context, name, contentType string, data []byte) (string, error) {
		gotName, gotType, gotData = name, contentType, data
		return "mem://" + name, nil
	}))

	art, err := d.Export(context.Background(), Request{Start: date("2024-06-03"), End: date("2024-06-09")})
	require.NoError(t, err)

	assert.Equal(t, "team-schedule-2024-06-03-to-2024-06-09.pdf", art.FileName)
	assert.Equal(t, gotName, art.FileName)
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.Equal(t, gotType, art.ContentType)
	assert.Equal(t, "mem://"+art.FileName, art.Location)
	assert.Equal(t, int64(len(gotData)), art.Size)
	assert.Equal(t, 1, art.Pages)
	assert.True(t, bytes.HasPrefix(gotData, []byte("%PDF-")))
}

type failingBackend struct{ render.PDF }

func (failingBackend) Render(*render.Document) ([]byte, error) {
	return nil, errors.New("font missing")
}

func TestExportEmissionErrors(t *testing.T) {
	req := Request{Start: date("2024-06-03"), End: date("2024-06-09")}

	d := newTestDriver(t, EmitterFunc(func(context.Context, string, string, []byte) (string, error) {
		return "", errors.New("disk full")
	}))
	_, err := d.Export(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmission)
	assert.ErrorContains(t, err, "disk full")

	_, err = newTestDriver(t, nil).Export(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmission)

	d.backend = failingBackend{}
	_, err = d.Export(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmission)
	assert.ErrorContains(t, err, "font missing")

	_, err = d.Export(context.Background(), Request{Start: date("2024-06-09"), End: date("2024-06-03")})
	assert.ErrorIs(t, err, calendar.ErrInvalidRange)
	assert.NotErrorIs(t, err, ErrEmission)
}

func TestFileNameAndHeader(t *testing.T) {
	start, end := date("2024-06-03"), date("2024-07-01")
	assert.Equal(t, "sched-2024-06-03-to-2024-07-01.pdf", FileName("sched", start, end, "pdf"))
	assert.Equal(t, "U18: Jun 3, 2024 - Jul 1, 2024", Header("U18", start, end, 1, 1, LongDate))
	assert.Equal(t, "U18: Jun 3, 2024 - Jul 1, 2024 (Page 2/3)", Header("U18", start, end, 2, 3, LongDate))
}

type recordingPutter struct {
	key, contentType string
	body             []byte
	err              error
}

func (p *recordingPutter) PutObject(_ context.Context, key, contentType string, body []byte) error {
	p.key, p.contentType, p.body = key, contentType, body
	return p.err
}

func TestObjectEmitter(t *testing.T) {
	p := &recordingPutter{}
	e := ObjectEmitter{Store: p, Prefix: "exports/coach1"}

	loc, err := e.Emit(context.Background(), "file.pdf", "application/pdf", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, p.key, loc)
	assert.Equal(t, "application/pdf", p.contentType)

	parts := strings.Split(loc, "/")
	require.Len(t, parts, 4)
	assert.Equal(t, []string{"exports", "coach1"}, parts[:2])
	assert.Equal(t, "file.pdf", parts[3])
	_, err = uuid.Parse(parts[2])
	assert.NoError(t, err)

	p.err = errors.New("denied")
	_, err = e.Emit(context.Background(), "file.pdf", "application/pdf", nil)
	assert.Error(t, err)
}

func TestDirEmitter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	loc, err := DirEmitter{Dir: dir}.Emit(context.Background(), "a.pdf", "application/pdf", []byte("%PDF-"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.pdf"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(data))
}
