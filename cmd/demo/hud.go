package main

import (
	"fmt"
	"strings"

	"gdx-render/renderer"
)

// overlay collects per-second diagnostics shown in the window title.
type overlay struct {
	base   string
	frames int
	fields []string
}

func (o *overlay) add(format string, args ...any) {
	o.fields = append(o.fields, fmt.Sprintf(format, args...))
}

// frame counts one presented frame.
func (o *overlay) frame() { o.frames++ }

// title formats the collected fields after the base title and resets them.
func (o *overlay) title(st renderer.Stats, elapsed float64) string {
	if elapsed > 0 {
		o.add("%.0f fps", float64(o.frames)/elapsed)
	}
	o.add("%d draws", st.DrawCalls)
	o.add("%d culled", st.Culled)
	o.add("%d shader / %d texture binds", st.ShaderBinds, st.TextureBinds)

	var b strings.Builder
	b.WriteString(o.base)
	for _, f := range o.fields {
		b.WriteString(" | ")
		b.WriteString(f)
	}
	o.frames = 0
	o.fields = o.fields[:0]
	return b.String()
}
