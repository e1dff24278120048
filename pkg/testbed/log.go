package testbed

import (
	"fmt"

	"github.com/fatih/color"
)

// LogLinePrefix marks lines wrapper scripts should pick out of test output.
const LogLinePrefix = "LOG_INFO_TEST:"

var logPrefix = color.New(color.FgCyan, color.Bold)

// LogLine writes line to the log output behind LogLinePrefix.
func (tb *TestBed) LogLine(line string) {
	fmt.Fprintf(tb.out, "%s %s\n", logPrefix.Sprint(LogLinePrefix), line)
}
