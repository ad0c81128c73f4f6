package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/tdewolff/argp"
	min "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/svgdoc"
	"github.com/tdewolff/svgdoc/minify"
	"github.com/tdewolff/svgdoc/svgfile"
)

// Version is the current svgdoc version.
var Version = "built from source"

var (
	quiet        bool
	verbose      int
	version      bool
	watch        bool
	debug        bool
	preserve     bool
	permissive   bool
	minifyOutput bool
	output       string
	ops          Operations
	parser       svgdoc.Parser
	m            *min.M
)

// Log is the logger for errors, warnings and info messages.
var Log = logrus.New()

func main() {
	// os.Exit doesn't execute pending defer calls, this is fixed by encapsulating run()
	os.Exit(run())
}

func run() int {
	var inputs []string
	var precision int

	f := argp.New("svgdoc")
	f.AddRest(&inputs, "inputs", "Input SVG files, leave blank to use stdin")
	f.AddOpt(&output, "o", "output", "Output directory where a new file is created per input, leave blank to use stdout")
	f.AddOpt(&ops.Clean, "", "clean", "Remove all root attributes except viewBox")
	f.AddOpt(&ops.Set, "", "set", "Set root attributes (eg. data-name=logo)")
	f.AddOpt(&ops.Remove, "", "remove", "Remove root attributes")
	f.AddOpt(&ops.Class, "", "class", "Replace the class attribute")
	f.AddOpt(&ops.AddClass, "", "add-class", "Append classes to the class attribute")
	f.AddOpt(&ops.ID, "", "id", "Set the id attribute")
	f.AddOpt(&ops.Color, "", "color", "Set the fill attribute to a hex color (eg. #f00 or #ff0000)")
	f.AddOpt(&ops.Width, "", "width", "Set the width attribute")
	f.AddOpt(&ops.Height, "", "height", "Set the height attribute")
	f.AddOpt(&ops.Title, "", "title", "Insert a title element")
	f.AddOpt(&ops.Link, "", "link", "Wrap the SVG in a link preceded by this text")
	f.AddOpt(&ops.Href, "", "href", "Link target")
	f.AddOpt(&ops.LinkClass, "", "link-class", "Class of the link text")
	f.AddOpt(&parser.ExactInnerContent, "", "exact", "Take the inner content from between the root tags instead of removing every </svg>")
	f.AddOpt(&minifyOutput, "", "minify", "Minify the output")
	f.AddOpt(&precision, "", "svg-precision", "Number of significant digits to preserve in numbers when minifying, 0 is all")
	f.AddOpt(&permissive, "", "permissive", "Skip output silently when the output directory is not usable")
	f.AddOpt(&preserve, "p", "preserve", "Preserve timestamps of input files")
	f.AddOpt(&debug, "", "debug", "Print attributes and tags of each document to stderr")
	f.AddOpt(&watch, "w", "watch", "Watch files and render upon changes")
	f.AddOpt(&quiet, "q", "quiet", "Quiet mode to suppress all output")
	f.AddOpt(argp.Count{I: &verbose}, "v", "verbose", "Verbose mode, set twice for more verbosity")
	f.AddOpt(&version, "", "version", "Version")
	f.Parse()

	if version {
		if !quiet {
			fmt.Printf("svgdoc %s\n", Version)
		}
		return 0
	}

	setupLog(quiet, verbose)

	if len(inputs) == 1 && inputs[0] == "-" {
		inputs = inputs[:0] // stdin
	}
	useStdin := len(inputs) == 0

	if err := ops.Validate(); err != nil {
		Log.Error(err)
		return 1
	}
	if watch && (useStdin || output == "") {
		Log.Error("--watch doesn't work with stdin and stdout, specify input and output")
		return 1
	} else if 1 < len(inputs) && output == "" {
		Log.Error("must specify --output for multiple input files")
		return 1
	} else if preserve && (useStdin || output == "") {
		Log.Error("--preserve cannot be used together with stdin or stdout")
		return 1
	}
	if output != "" && !svgfile.IsDir(output) {
		if !permissive {
			Log.Errorf("stat %v: no such directory", output)
			return 1
		}
		Log.Warnf("output directory %v is not usable, nothing will be saved", output)
	}

	for i, input := range inputs {
		if input == "-" {
			Log.Error("cannot mix files and stdin as input")
			return 1
		}
		inputs[i] = filepath.Clean(input)
	}

	if output == "" {
		Log.Info("render to stdout")
	} else {
		Log.Info("render to output directory ", output)
	}
	if parser.ExactInnerContent {
		Log.Info("take inner content from between the root tags")
	}
	if minifyOutput {
		m = minify.Default
		if precision != 0 {
			m = minify.New(precision)
		}
	}

	fails := 0
	start := time.Now()
	if useStdin {
		Log.Info("render from stdin")
		if ok := render(""); !ok {
			fails++
		}
	} else if !watch && (len(inputs) == 1 || 0 < verbose) {
		for _, input := range inputs {
			if ok := render(input); !ok {
				fails++
			}
		}
	} else {
		numWorkers := runtime.NumCPU()
		if 0 < verbose {
			numWorkers = 1
		} else if numWorkers < 4 {
			numWorkers = 4
		}

		chanInputs := make(chan string, 20)
		chanFails := make(chan int, numWorkers)
		for n := 0; n < numWorkers; n++ {
			go renderWorker(chanInputs, chanFails)
		}

		if !watch {
			for _, input := range inputs {
				chanInputs <- input
			}
		} else {
			watcher, err := NewWatcher()
			if err != nil {
				Log.Error(err)
				return 1
			}
			defer watcher.Close()

			for _, input := range inputs {
				if err := watcher.AddPath(input); err != nil {
					Log.Error(err)
					return 1
				}
			}
			changes := watcher.Run()
			for _, input := range inputs {
				chanInputs <- input
			}

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			for changes != nil {
				select {
				case <-c:
					watcher.Close()
				case input, ok := <-changes:
					if !ok {
						changes = nil
						break
					}
					Log.Info("changed ", input)
					chanInputs <- input
				}
			}
		}

		close(chanInputs)
		for n := 0; n < numWorkers; n++ {
			fails += <-chanFails
		}
	}

	if !watch {
		Log.Info("finished in ", time.Since(start))
	}
	if 0 < fails {
		return 1
	}
	return 0
}

func setupLog(quiet bool, verbose int) {
	Log.SetOutput(os.Stderr)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	Log.SetLevel(logrus.ErrorLevel)
	if quiet {
		Log.SetOutput(io.Discard)
	} else if 2 < verbose {
		Log.SetLevel(logrus.DebugLevel)
	} else if 1 < verbose {
		Log.SetLevel(logrus.InfoLevel)
	} else if 0 < verbose {
		Log.SetLevel(logrus.WarnLevel)
	}
}

func renderWorker(chanInputs <-chan string, chanFails chan<- int) {
	fails := 0
	for input := range chanInputs {
		if ok := render(input); !ok {
			fails++
		}
	}
	chanFails <- fails
}

// render reads, changes and writes a single document, an empty input reads from stdin.
func render(input string) bool {
	srcName := input
	if srcName == "" {
		srcName = "stdin"
	}

	s, err := readInput(input)
	if err != nil {
		Log.Error(err)
		return false
	}

	startTime := time.Now()
	d, err := parser.Parse(s)
	if err != nil {
		Log.Errorf("cannot parse %s: %v", srcName, err)
		return false
	}
	if ok := ops.Apply(d); !ok {
		Log.Warnf("ignoring color %q for %s, expected #RGB or #RRGGBB", ops.Color, srcName)
	}
	if debug || Log.IsLevelEnabled(logrus.DebugLevel) {
		b := &bytes.Buffer{}
		if err := d.Dump(b); err == nil {
			Log.Debug(srcName)
			if debug {
				os.Stderr.Write(b.Bytes())
			} else {
				Log.Debug("\n" + b.String())
			}
		}
	}

	var b []byte
	if m != nil {
		if b, err = minify.Document(m, d); err != nil {
			Log.Errorf("cannot minify %s: %v", srcName, err)
			return false
		}
	} else {
		b = []byte(d.Render())
	}

	dstName, err := writeOutput(output, b)
	if err != nil {
		Log.Error(err)
		return false
	} else if dstName == "" {
		Log.Infof("skip %s, output directory %s is not usable", srcName, output)
		return true
	}

	if preserve {
		if err := svgfile.PreserveTimes(input, dstName); err != nil {
			Log.Warn(err)
		}
	}

	if !quiet {
		rLen, wLen := len(s), len(b)
		dur := time.Since(startTime)
		speed := "Inf MB"
		if 0 < dur {
			speed = humanize.Bytes(uint64(float64(rLen) / dur.Seconds()))
		}
		ratio := 1.0
		if 0 < rLen {
			ratio = float64(wLen) / float64(rLen)
		}

		stats := fmt.Sprintf("(%9v, %6v, %6v, %5.1f%%, %6v/s)", dur, humanize.Bytes(uint64(rLen)), humanize.Bytes(uint64(wLen)), ratio*100, speed)
		if output == "" {
			Log.Info(stats, " - ", srcName, " to ", dstName)
		} else {
			fmt.Println(stats, "-", srcName, "to", dstName)
		}
	}
	return true
}
