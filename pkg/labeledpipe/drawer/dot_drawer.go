package drawer

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/measure"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
)

// DOTDrawer is a drawer that writes the pipeline graph in the DOT language.
type DOTDrawer struct {
	graph      graph.Graph[string, string]
	wrt        io.Writer
	attributes map[string]string
}

// DOTOption configures a DOT drawer.
type DOTOption func(d *DOTDrawer)

// WithGraphAttribute sets a graph level attribute, such as rankdir.
func WithGraphAttribute(key, value string) DOTOption {
	return func(d *DOTDrawer) {
		d.attributes[key] = value
	}
}

// NewDOTDrawer creates a new DOT drawer writing to wrt.
func NewDOTDrawer(wrt io.Writer, opts ...DOTOption) *DOTDrawer {
	d := &DOTDrawer{
		wrt:        wrt,
		graph:      graph.New(graph.StringHash, graph.Directed()),
		attributes: make(map[string]string),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

const (
	maxRGB   = 240
	maxDepth = 6
)

// depthColour shades a step from white to blue the deeper it is nested in spans.
func depthColour(depth int) (string, error) {
	if depth > maxDepth {
		depth = maxDepth
	}

	shade := uint8(255 - depth*(255-maxRGB/2)/maxDepth)

	colour, err := colors.RGB(shade, shade, 255) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(step *model.StepInfo) error {
	fill, err := depthColour(step.Depth)
	if err != nil {
		return err
	}

	err = d.graph.AddVertex(step.ID,
		graph.VertexAttribute("label", step.Name),
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", fill),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", step.Name)
	}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentID, childrenID string) error {
	err := d.graph.AddEdge(parentID, childrenID)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentID, childrenID)
	}

	return nil
}

// Draw writes the pipeline graph.
func (d *DOTDrawer) Draw() error {
	err := dot(d.graph, d.wrt, graphAttributes(d.attributes))
	if err != nil {
		return errors.Wrap(err, "unable to write dot graph")
	}

	return nil
}

// SetTotalTime sets the total time for the step.
func (d *DOTDrawer) SetTotalTime(stepID string, startTime time.Time) error {
	_, properties, err := d.graph.VertexWithProperties(stepID)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", stepID)
	}

	properties.Attributes["xlabel"] = time.Since(startTime).String()

	return nil
}

// AddMeasure colours the links from blue to red, from the fastest to the slowest average transport.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	allChanElapsed := make(map[time.Duration]string)
	sortedAllChanElapsed := []time.Duration{}

	for _, step := range msr.AllMetrics() {
		for _, info := range step.AVGTransportDuration() {
			if info.Elapsed == 0 {
				continue
			}

			if _, ok := allChanElapsed[info.Elapsed]; ok {
				continue
			}

			allChanElapsed[info.Elapsed] = ""

			sortedAllChanElapsed = append(sortedAllChanElapsed, info.Elapsed)
		}
	}

	if len(sortedAllChanElapsed) == 0 {
		return nil
	}

	sort.Slice(sortedAllChanElapsed, func(i, j int) bool {
		return sortedAllChanElapsed[i] > sortedAllChanElapsed[j]
	})

	maxValue := sortedAllChanElapsed[0]
	minValue := sortedAllChanElapsed[len(sortedAllChanElapsed)-1]

	for curr := range allChanElapsed {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(curr-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := maxRGB - maxRGB*fraction

		colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		allChanElapsed[curr] = colour.ToHEX().String()
	}

	err := d.updateMetrics(msr, allChanElapsed)
	if err != nil {
		return errors.Wrap(err, "unable to update metrics")
	}

	return nil
}

func (d *DOTDrawer) updateMetrics(msr measure.Measure, allChanElapsed map[time.Duration]string) error {
	for id, step := range msr.AllMetrics() {
		_, properties, err := d.graph.VertexWithProperties(id)
		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		xlabel := []string{}
		if count := step.Count(); count > 0 {
			xlabel = append(xlabel, fmt.Sprintf("%d items", count))
		}

		if step.GetTotalDuration() > 0 {
			xlabel = append(xlabel, "end: "+step.GetTotalDuration().String())
		}

		if len(xlabel) > 0 {
			properties.Attributes["xlabel"] = strings.Join(xlabel, ", ")
		}

		for inputStep, info := range step.AVGTransportDuration() {
			if info.Elapsed == 0 {
				continue
			}

			err := d.graph.UpdateEdge(inputStep, id,
				graph.EdgeAttribute("label", info.Elapsed.String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", allChanElapsed[info.Elapsed]), //nolint
			)
			if err != nil {
				return errors.Wrap(err, "unable to update edge")
			}
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot[K comparable, T any](g graph.Graph[K, T], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

func graphAttributes(attributes map[string]string) func(*description) {
	return func(d *description) {
		for key, value := range attributes {
			d.Attributes[key] = value
		}
	}
}

// generateDOT lists vertices in a stable order, so the same pipeline always renders the same graph.
func generateDOT[K comparable, T any](gra graph.Graph[K, T], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices, err := graph.StableTopologicalSort(gra, func(a, b K) bool {
		return fmt.Sprint(a) < fmt.Sprint(b)
	})
	if err != nil {
		return desc, errors.Wrap(err, "unable to sort vertices")
	}

	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := make(map[string]string, len(sourceProperties.Attributes))
		htmlAttributes := make(map[string]string)

		for k, v := range sourceProperties.Attributes {
			attributes[k] = v
		}

		if xlabel, ok := attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, attributes["label"], xlabel)

			delete(attributes, "xlabel")
			delete(attributes, "label")
		}

		stmt := statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		}
		desc.Statements = append(desc.Statements, stmt)

		for adjacency, edge := range adjacencyMap[vertex] {
			stmt := statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			}
			desc.Statements = append(desc.Statements, stmt)
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
