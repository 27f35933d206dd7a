package labeledpipe_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe"
	"github.com/askiada/go-labeledpipe/pkg/lazypipe"
)

func TestNew(t *testing.T) {
	t.Parallel()

	pipe := labeledpipe.New(labeledpipe.WithName("testDisplayName"))
	assert.Equal(t, "testDisplayName", pipe.Name())
	assert.Equal(t, 0, pipe.Len())
	assert.Equal(t, 0, pipe.Cursor())
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	unit := build(t, labeledpipe.New())
	out := runOne(t, unit)
	assert.Equal(t, []any{struct{}{}}, out)
}

func TestPipeReturnsNewPipe(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	pipe := labeledpipe.New()
	next := pipe.Pipe("", rec.report, "A")

	assert.NotSame(t, pipe, next)
	assert.Equal(t, 0, pipe.Len())
	assert.Equal(t, 1, next.Len())
	assert.Equal(t, 1, next.Cursor())
	assert.Empty(t, rec.Built())
	assert.Empty(t, rec.Events())
}

func TestPipeBuildsOnBuild(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	pipe := labeledpipe.New().Pipe("", rec.report, "A")

	unit := build(t, pipe)
	assert.Equal(t, []string{"A"}, rec.Built())
	assert.Empty(t, rec.Events())

	out := runOne(t, unit)
	assert.Len(t, out, 1)
	assert.Equal(t, []string{"A"}, rec.Events())
}

func TestPipeMarker(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	pipe := labeledpipe.New().
		Pipe("", rec.report, "A").
		Pipe("B", nil)

	assert.Equal(t, 3, pipe.Len())
	assert.Equal(t, 3, pipe.Cursor())

	build(t, pipe)
	assert.Equal(t, []string{"A"}, rec.Built())
	assert.Empty(t, rec.Events())
}

func TestTraces(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		pipe     func(rec *recorder) *labeledpipe.Pipe
		expected []string
	}{
		"embed labeledpipe": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				return labeledpipe.New().Embed("", labeledpipe.New().Pipe("", rec.report, "A"))
			},
			expected: []string{"A"},
		},
		"embed lazypipe": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				return labeledpipe.New().Embed("", lazypipe.New().Pipe(rec.report, "A"))
			},
			expected: []string{"A"},
		},
		"before": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B")

				return labeledpipe.Must(pipe.Before("A")).Pipe("C", rec.report, "C").Pipe("D", rec.report, "D")
			},
			expected: []string{"C", "D", "A", "B"},
		},
		"before label in sub-pipeline": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("", other)

				return labeledpipe.Must(pipe.Before("C")).Pipe("D", rec.report, "D")
			},
			expected: []string{"A", "B", "D", "C"},
		},
		"before sub-pipeline": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("other", other).Pipe("D", rec.report, "D")

				return labeledpipe.Must(pipe.Before("other")).Pipe("E", rec.report, "E")
			},
			expected: []string{"A", "E", "B", "C", "D"},
		},
		"after": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B")

				return labeledpipe.Must(pipe.After("A")).Pipe("C", rec.report, "C").Pipe("D", rec.report, "D")
			},
			expected: []string{"A", "C", "D", "B"},
		},
		"after label in sub-pipeline": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("", other)

				return labeledpipe.Must(pipe.After("B")).Pipe("D", rec.report, "D")
			},
			expected: []string{"A", "B", "D", "C"},
		},
		"after sub-pipeline": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("other", other).Pipe("D", rec.report, "D")

				return labeledpipe.Must(pipe.After("other")).Pipe("E", rec.report, "E")
			},
			expected: []string{"A", "B", "C", "E", "D"},
		},
		"beginning of marker": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("MissingLetters", nil).Pipe("B", rec.report, "B")
				pipe = labeledpipe.Must(pipe.BeginningOf("MissingLetters")).Pipe("Y", rec.report, "Y")

				return labeledpipe.Must(pipe.BeginningOf("MissingLetters")).Pipe("X", rec.report, "X")
			},
			expected: []string{"A", "X", "Y", "B"},
		},
		"beginning of sub-pipeline": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("OtherThings", other).Pipe("D", rec.report, "D")

				return labeledpipe.Must(pipe.BeginningOf("OtherThings")).Pipe("X", rec.report, "X")
			},
			expected: []string{"A", "X", "B", "C", "D"},
		},
		"end of marker": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("MissingLetters", nil).Pipe("B", rec.report, "B")

				return labeledpipe.Must(pipe.EndOf("MissingLetters")).Pipe("X", rec.report, "X")
			},
			expected: []string{"A", "X", "B"},
		},
		"end of sub-pipeline": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("OtherThings", other).Pipe("D", rec.report, "D")

				return labeledpipe.Must(pipe.EndOf("OtherThings")).Pipe("X", rec.report, "X")
			},
			expected: []string{"A", "B", "C", "X", "D"},
		},
		"first": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				return labeledpipe.New().Pipe("", rec.report, "A").First().Pipe("", rec.report, "B").Pipe("", rec.report, "C")
			},
			expected: []string{"B", "C", "A"},
		},
		"last": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				return labeledpipe.New().Pipe("", rec.report, "A").First().Pipe("", rec.report, "B").Last().Pipe("", rec.report, "C")
			},
			expected: []string{"B", "A", "C"},
		},
		"insert before first step": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")

				return labeledpipe.Must(pipe.Before("A")).Pipe("D", rec.report, "D")
			},
			expected: []string{"D", "A", "B", "C"},
		},
		"remove": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")

				return labeledpipe.Must(pipe.Remove("B"))
			},
			expected: []string{"A", "C"},
		},
		"remove from sub-pipeline": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")

				return labeledpipe.Must(labeledpipe.New().Pipe("A", rec.report, "A").Embed("", other).Remove("B"))
			},
			expected: []string{"A", "C"},
		},
		"remove sub-pipeline": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("other", other).Pipe("D", rec.report, "D")

				return labeledpipe.Must(pipe.Remove("other"))
			},
			expected: []string{"A", "D"},
		},
		"remove with cursor before": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe = labeledpipe.Must(labeledpipe.Must(pipe.Before("A")).Remove("B"))

				return pipe.Pipe("D", rec.report, "D")
			},
			expected: []string{"D", "A", "C"},
		},
		"remove with cursor after": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe = labeledpipe.Must(labeledpipe.Must(pipe.After("B")).Remove("B"))

				return pipe.Pipe("D", rec.report, "D")
			},
			expected: []string{"A", "D", "C"},
		},
		"remove with cursor inside": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("other", other).Pipe("D", rec.report, "D")
				pipe = labeledpipe.Must(labeledpipe.Must(pipe.After("B")).Remove("other"))

				return pipe.Pipe("E", rec.report, "E")
			},
			expected: []string{"A", "E", "D"},
		},
		"replace": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")

				return labeledpipe.Must(pipe.Replace("B", rec.report, "D"))
			},
			expected: []string{"A", "D", "C"},
		},
		"replace in sub-pipeline": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")

				return labeledpipe.Must(labeledpipe.New().Pipe("A", rec.report, "A").Embed("", other).Replace("B", rec.report, "D"))
			},
			expected: []string{"A", "D", "C"},
		},
		"replace sub-pipeline": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("other", other).Pipe("D", rec.report, "D")

				return labeledpipe.Must(pipe.Replace("other", rec.report, "E"))
			},
			expected: []string{"A", "E", "D"},
		},
		"replace with cursor before": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe = labeledpipe.Must(labeledpipe.Must(pipe.Before("A")).Replace("B", rec.report, "E"))

				return pipe.Pipe("D", rec.report, "D")
			},
			expected: []string{"D", "A", "E", "C"},
		},
		"replace with cursor after": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe = labeledpipe.Must(labeledpipe.Must(pipe.After("B")).Replace("B", rec.report, "E"))

				return pipe.Pipe("D", rec.report, "D")
			},
			expected: []string{"A", "E", "D", "C"},
		},
		"replace with cursor inside": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("other", other).Pipe("D", rec.report, "D")
				pipe = labeledpipe.Must(labeledpipe.Must(pipe.After("B")).Replace("other", rec.report, "F"))

				return pipe.Pipe("E", rec.report, "E")
			},
			expected: []string{"A", "F", "E", "D"},
		},
		"replace with labeledpipe": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := labeledpipe.New().Pipe("", rec.report, "D")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")

				return labeledpipe.Must(pipe.ReplaceWith("B", other))
			},
			expected: []string{"A", "D", "C"},
		},
		"replace with lazypipe": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				other := lazypipe.New().Pipe(rec.report, "D")
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")

				return labeledpipe.Must(pipe.ReplaceWith("B", other))
			},
			expected: []string{"A", "D", "C"},
		},
		"replace keeps the label": {
			pipe: func(rec *recorder) *labeledpipe.Pipe {
				pipe := labeledpipe.New().Pipe("A", rec.report, "A").Pipe("B", rec.report, "B").Pipe("C", rec.report, "C")
				pipe = labeledpipe.Must(pipe.Replace("B", rec.report, "D"))

				return labeledpipe.Must(pipe.Before("B")).Pipe("E", rec.report, "E")
			},
			expected: []string{"A", "E", "D", "C"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			unit := build(t, tc.pipe(rec))
			runOne(t, unit)
			assert.Equal(t, tc.expected, rec.Events())
			assert.Equal(t, tc.expected, rec.Built())
		})
	}
}

func TestLabelNotFound(t *testing.T) {
	t.Parallel()

	pipe := labeledpipe.New().Pipe("A", passThrough).Pipe("B", passThrough)

	tcs := map[string]struct {
		edit     func(p *labeledpipe.Pipe) (*labeledpipe.Pipe, error)
		op       labeledpipe.Op
		expected string
	}{
		"before":      {edit: func(p *labeledpipe.Pipe) (*labeledpipe.Pipe, error) { return p.Before("C") }, op: labeledpipe.OpBefore, expected: "Unable to move cursor before step C"},
		"after":       {edit: func(p *labeledpipe.Pipe) (*labeledpipe.Pipe, error) { return p.After("C") }, op: labeledpipe.OpAfter, expected: "Unable to move cursor after step C"},
		"beginningOf": {edit: func(p *labeledpipe.Pipe) (*labeledpipe.Pipe, error) { return p.BeginningOf("C") }, op: labeledpipe.OpBeginningOf, expected: "Unable to move cursor to the beginning of C"},
		"endOf":       {edit: func(p *labeledpipe.Pipe) (*labeledpipe.Pipe, error) { return p.EndOf("C") }, op: labeledpipe.OpEndOf, expected: "Unable to move cursor to the end of C"},
		"remove":      {edit: func(p *labeledpipe.Pipe) (*labeledpipe.Pipe, error) { return p.Remove("C") }, op: labeledpipe.OpRemove, expected: "Unable to remove step C"},
		"replace":     {edit: func(p *labeledpipe.Pipe) (*labeledpipe.Pipe, error) { return p.Replace("C", passThrough) }, op: labeledpipe.OpReplace, expected: "Unable to remove step C"},
		"replaceWith": {edit: func(p *labeledpipe.Pipe) (*labeledpipe.Pipe, error) { return p.ReplaceWith("C", lazypipe.New()) }, op: labeledpipe.OpReplace, expected: "Unable to remove step C"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.edit(pipe)
			require.EqualError(t, err, tc.expected)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, labeledpipe.ErrLabelNotFound)

			var notFound *labeledpipe.NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tc.op, notFound.Op)
			assert.Equal(t, "C", notFound.Label)
		})
	}
}

func TestEmptyLabelIsNeverFound(t *testing.T) {
	t.Parallel()

	pipe := labeledpipe.New().Pipe("", passThrough).Embed("", labeledpipe.New().Pipe("", passThrough))

	_, err := pipe.Remove("")
	assert.ErrorIs(t, err, labeledpipe.ErrLabelNotFound)
}

func TestEditsDoNotModifyReceiver(t *testing.T) {
	t.Parallel()

	base := labeledpipe.New().Pipe("A", passThrough).Pipe("B", passThrough)
	steps := base.Steps()

	_ = base.Pipe("C", passThrough)
	_ = labeledpipe.Must(base.Remove("A"))
	_ = labeledpipe.Must(base.Replace("B", nil))
	_ = labeledpipe.Must(base.On("error", newCounter().listener))
	_ = base.First()

	assert.Equal(t, 2, base.Cursor())
	assert.Equal(t, 2, base.Len())
	assert.Equal(t, len(steps), len(base.Steps()))
	assert.Empty(t, base.Steps()[1].Events)
}

func TestCursorStaysInRange(t *testing.T) {
	t.Parallel()

	other := labeledpipe.New().Pipe("B", passThrough).Pipe("C", passThrough)
	pipe := labeledpipe.New().Pipe("A", passThrough).Embed("other", other).Pipe("D", passThrough)

	for _, label := range []string{"A", "B", "C", "other", "D"} {
		for _, move := range []func(string) (*labeledpipe.Pipe, error){pipe.Before, pipe.After, pipe.BeginningOf, pipe.EndOf} {
			moved := labeledpipe.Must(move(label))
			for _, target := range []string{"A", "other", "D"} {
				removed, err := moved.Remove(target)
				if err == nil {
					assert.GreaterOrEqual(t, removed.Cursor(), 0)
					assert.LessOrEqual(t, removed.Cursor(), removed.Len())
				}

				replaced, err := moved.Replace(target, passThrough)
				if err == nil {
					assert.GreaterOrEqual(t, replaced.Cursor(), 0)
					assert.LessOrEqual(t, replaced.Cursor(), replaced.Len())
				}
			}
		}
	}
}

func TestMust(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		labeledpipe.Must(labeledpipe.New().Before("A"))
	})
	assert.NotPanics(t, func() {
		labeledpipe.Must(labeledpipe.New().Pipe("A", nil).Before("A"))
	})
}

func TestGoString(t *testing.T) {
	t.Parallel()

	pipe := labeledpipe.Must(labeledpipe.New(labeledpipe.WithName("dump")).Pipe("A", passThrough, 1).Pipe("M", nil).On("error", newCounter().listener))
	dump := pipe.GoString()

	assert.Contains(t, dump, `"dump"`)
	assert.Contains(t, dump, "cursor=3")
	assert.Contains(t, dump, `"A"`)
	assert.Contains(t, dump, `"M"`)
	assert.Contains(t, dump, "on")
}

func TestEmbedNil(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	pipe := labeledpipe.New().Pipe("A", rec.report, "A").Embed("slot", nil).Pipe("B", rec.report, "B")
	assert.Equal(t, 4, pipe.Len())

	pipe = labeledpipe.Must(pipe.BeginningOf("slot")).Pipe("X", rec.report, "X")
	pipe = labeledpipe.Must(pipe.ReplaceWith("A", nil))

	runOne(t, build(t, pipe))
	assert.Equal(t, []string{"X", "B"}, rec.Events())
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	pipe := labeledpipe.New(labeledpipe.WithName("logged"), labeledpipe.WithLogger(logger)).Pipe("A", passThrough)

	runOne(t, build(t, pipe))
	assert.Contains(t, buf.String(), "chain built")
	assert.Contains(t, buf.String(), "name=logged")
}
