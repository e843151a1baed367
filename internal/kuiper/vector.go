package kuiper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/atiaxi/kuiper-sub000/pkg/utils"
)

// Vector - точка или скорость на плоскости сектора. В файле - "x,y".
type Vector struct {
	X, Y float64
}

func (v Vector) Add(o Vector) Vector         { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Scale(k float64) Vector      { return Vector{v.X * k, v.Y * k} }
func (v Vector) Length() float64             { return math.Hypot(v.X, v.Y) }
func (v Vector) DistanceTo(o Vector) float64 { return Vector{o.X - v.X, o.Y - v.Y}.Length() }

// Rotate поворачивает вектор против часовой стрелки на угол в градусах.
func (v Vector) Rotate(degrees float64) Vector {
	sin, cos := math.Sincos(utils.DegToRad(degrees))
	return Vector{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Angle - направление вектора в градусах, [0, 360).
func (v Vector) Angle() float64 {
	return utils.NormalizeDeg(utils.RadToDeg(math.Atan2(v.Y, v.X)))
}

// Heading - единичный вектор в направлении угла (градусы).
func Heading(degrees float64) Vector {
	return Vector{X: 1}.Rotate(degrees)
}

func (v Vector) String() string {
	return strconv.FormatFloat(v.X, 'g', -1, 64) + "," + strconv.FormatFloat(v.Y, 'g', -1, 64)
}

func (v Vector) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Vector) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*v = Vector{}
		return nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return fmt.Errorf("vector %q: want \"x,y\"", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return fmt.Errorf("vector %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return fmt.Errorf("vector %q: %w", s, err)
	}
	*v = Vector{x, y}
	return nil
}
