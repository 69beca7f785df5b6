package mdl

import "github.com/vk/compyler/internal/value"

// rule fills cmd from the command's arguments and queues any symbol
// bindings the command makes.
type rule func(cmd *Command, a *argReader)

// ShadingTypes lists the values accepted by the shading command.
var ShadingTypes = []string{"phong", "flat", "gouraud", "raytrace", "wireframe"}

var grammar map[string]rule

func init() {
	grammar = map[string]rule{
		"push":              noArgs,
		"pop":               noArgs,
		"display":           noArgs,
		"clear":             noArgs,
		"generate_rayfiles": noArgs,
		"web":               noArgs,

		"save":     singleWord("a file name"),
		"basename": singleWord("a base name"),

		"frames":   singleNumber("a frame count"),
		"setknobs": singleNumber("a knob value"),
		"focal":    singleNumber("a focal length"),

		"move":   transform(3, "a coordinate"),
		"scale":  transform(3, "a scale factor"),
		"rotate": rotate,

		"sphere": solid(4),
		"torus":  solid(5),
		"box":    solid(6),
		"line":   lineRule,
		"mesh":   mesh,

		"circle":  curve(4),
		"hermite": curve(8),
		"bezier":  curve(8),

		"vary":              vary,
		"set":               set,
		"constants":         constants,
		"light":             light,
		"ambient":           ambient,
		"shading":           shading,
		"camera":            camera,
		"save_coord_system": saveCoordSystem,
		"save_knobs":        saveKnobs,
		"tween":             tween,
	}
}

func noArgs(cmd *Command, a *argReader) {
	cmd.set("args", nil)
}

func singleWord(what string) rule {
	return func(cmd *Command, a *argReader) {
		cmd.set("args", value.List{a.word(what)})
	}
}

func singleNumber(what string) rule {
	return func(cmd *Command, a *argReader) {
		cmd.set("args", value.List{a.number(what)})
	}
}

// transform handles move and scale: n numbers and an optional knob.
func transform(n int, what string) rule {
	return func(cmd *Command, a *argReader) {
		cmd.set("args", value.List(a.numbers(n, what)))
		knob := a.optName()
		cmd.set("knob", knob)
		if name, ok := knob.(string); ok {
			a.define(name, "knob", 0)
		}
	}
}

func rotate(cmd *Command, a *argReader) {
	axis := a.oneOf("an axis", "x", "y", "z")
	degrees := a.number("an angle in degrees")
	cmd.set("args", value.List{axis, degrees})
	knob := a.optName()
	cmd.set("knob", knob)
	if name, ok := knob.(string); ok {
		a.define(name, "knob", 0)
	}
}

// solid handles sphere, torus and box: optional constants, n numbers and an
// optional coordinate system.
func solid(n int) rule {
	return func(cmd *Command, a *argReader) {
		cmd.set("constants", a.optName())
		args := a.numbers(n, "a number")
		cmd.set("cs", a.optName())
		cmd.set("args", value.List(args))
	}
}

func lineRule(cmd *Command, a *argReader) {
	cmd.set("constants", a.optName())
	args := a.numbers(3, "a start point coordinate")
	cmd.set("cs0", a.optName())
	args = append(args, a.numbers(3, "an end point coordinate")...)
	cmd.set("cs1", a.optName())
	cmd.set("args", value.List(args))
}

func mesh(cmd *Command, a *argReader) {
	constants := a.optName()
	a.colon()
	file := a.word("a mesh file name")
	cmd.set("args", value.List{file})
	cmd.set("cs", a.optName())
	cmd.set("constants", constants)
}

func curve(n int) rule {
	return func(cmd *Command, a *argReader) {
		cmd.set("args", value.List(a.numbers(n, "a number")))
	}
}

func vary(cmd *Command, a *argReader) {
	knob := a.name("a knob name")
	cmd.set("args", value.List(a.numbers(4, "a frame or knob value")))
	cmd.set("knob", knob)
	a.define(knob, "knob", 0)
}

func set(cmd *Command, a *argReader) {
	knob := a.name("a knob name")
	v := a.number("a knob value")
	cmd.set("args", value.List{v})
	cmd.set("knob", knob)
	a.define(knob, "knob", v)
}

func constants(cmd *Command, a *argReader) {
	name := a.name("a constants name")
	coeffs := a.numbers(9, "a reflection coefficient")
	table := value.DictOf(
		"red", value.List(coeffs[0:3]),
		"green", value.List(coeffs[3:6]),
		"blue", value.List(coeffs[6:9]),
	)
	if a.remaining() > 0 {
		table.Set("intensities", value.List(a.numbers(3, "a color intensity")))
	}
	cmd.set("args", nil)
	cmd.set("constants", name)
	a.define(name, "constants", table)
}

func light(cmd *Command, a *argReader) {
	name := a.name("a light name")
	location := a.numbers(3, "a light location coordinate")
	color := a.numbers(3, "a light color component")
	cmd.set("args", nil)
	cmd.set("light", name)
	a.define(name, "light", value.DictOf("location", value.List(location), "color", value.List(color)))
}

func ambient(cmd *Command, a *argReader) {
	color := a.numbers(3, "an ambient color component")
	cmd.set("args", value.List(color))
	a.define("ambient", "ambient", color...)
}

func shading(cmd *Command, a *argReader) {
	kind := a.oneOf("a shading type", ShadingTypes...)
	cmd.set("args", nil)
	cmd.set("shade_type", kind)
	a.define("shading", "shade_type", kind)
}

func camera(cmd *Command, a *argReader) {
	eye := a.numbers(3, "an eye coordinate")
	aim := a.numbers(3, "an aim coordinate")
	cmd.set("args", nil)
	a.define("camera", "camera", value.DictOf("eye", value.List(eye), "aim", value.List(aim)))
}

func saveCoordSystem(cmd *Command, a *argReader) {
	name := a.name("a coordinate system name")
	cmd.set("args", nil)
	cmd.set("cs", name)
	a.define(name, "coord_sys", value.List{})
}

func saveKnobs(cmd *Command, a *argReader) {
	name := a.name("a knob list name")
	cmd.set("args", nil)
	cmd.set("knob_list", name)
	a.define(name, "knob_list", value.List{})
}

func tween(cmd *Command, a *argReader) {
	frames := a.numbers(2, "a frame number")
	from := a.name("a knob list name")
	to := a.name("a knob list name")
	cmd.set("args", value.List(frames))
	cmd.set("knob_list0", from)
	cmd.set("knob_list1", to)
}
