package metadata

import (
	"fmt"
	"strings"

	"github.com/user/videolab/pkg/pipeline"
)

// describe renders properties on one line for logs; unknown shows as "?".
func describe(p pipeline.VideoProperties) string {
	var b strings.Builder
	for i, f := range p.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString("=")
		if f.Value == nil {
			b.WriteString("?")
		} else {
			fmt.Fprint(&b, f.Value)
		}
	}
	return b.String()
}
