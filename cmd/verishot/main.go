package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"verishot"
	"verishot/internal/log"
)

const (
	version = "0.1.0"
	usage   = `USAGE:
  verishot [options] [route ...]

ROUTES:
  Routes may be passed as arguments, piped on stdin (one per line), read from
  a file with -l, or listed in a manifest with -m. With no routes given, the
  ten standard verification routes are captured.

CONFIGURATIONS:
  -u,   --url                base URL of the app under verification  (Default: http://localhost:6006)
  -l,   --list               file with routes (one per line, # comments)
  -m,   --manifest           YAML run manifest (overrides capture flags)
  -p,   --profile            device profile: mobile or desktop       (Default: mobile)
  -to,  --timeout            navigation timeout (seconds)            (Default: 60)
  -it,  --idle-timeout       network idle timeout (seconds)          (Default: 10)
  -d,   --delay              settle delay before capture (seconds)   (Default: 0)
  -cw,  --capture-width      viewport width override
  -ch,  --capture-height     viewport height override
  -ua,  --user-agent         user agent override
  -ice, --ignore-cert-err    ignore certificate errors               (Default: true)
  -nf,  --no-full            capture the viewport only, not the full page
  -nh,  --no-headless        show the browser window

OUTPUT:
  -o,   --outfolder          folder for screenshots                  (Default: verification/mobile)
  -lb,  --label              imprint route and profile on images     (Default: false)
  -s,   --silence            silence output
  -v,   --verbose            verbose output
        --version            display version
`
)

type cli struct {
	options  *verishot.Options
	infile   string
	manifest string
	routes   []string
}

func init() {
	log.Init("verishot")
}

func main() {
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	options := c.options
	routes := c.routes

	if c.manifest != "" {
		m, err := verishot.LoadManifest(c.manifest)
		if err != nil {
			log.Fatalf("Error reading manifest: %v", err)
		}
		manifestOptions, err := m.Options()
		if err != nil {
			log.Fatalf("Invalid manifest: %v", err)
		}
		manifestOptions.Silence = options.Silence
		manifestOptions.Verbose = options.Verbose
		options = manifestOptions
		if len(routes) == 0 {
			routes = m.Routes
		}
	}

	if len(routes) == 0 {
		routes = readRoutes(c)
	}

	runner := verishot.NewRunnerWithOptions(*options)

	results, err := runner.Run(context.Background(), routes...)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	captured := 0
	for _, result := range results {
		if result.Error == nil {
			captured++
		}
	}

	log.Infof("Captured %d/%d routes", captured, len(results))
}

func parseFlags(args []string) (*cli, error) {
	options := verishot.DefaultOptions()
	c := &cli{options: options}

	var help, ver, noFull, noHeadless bool
	var profile string
	var width, height int

	fs := flag.NewFlagSet("verishot", flag.ContinueOnError)
	fs.Usage = func() { fmt.Print(usage) }

	fs.StringVar(&options.BaseURL, "url", options.BaseURL, "")
	fs.StringVar(&options.BaseURL, "u", options.BaseURL, "")
	fs.StringVar(&c.infile, "list", "", "")
	fs.StringVar(&c.infile, "l", "", "")
	fs.StringVar(&c.manifest, "manifest", "", "")
	fs.StringVar(&c.manifest, "m", "", "")
	fs.StringVar(&profile, "profile", "", "")
	fs.StringVar(&profile, "p", "", "")
	fs.IntVar(&options.Timeout, "timeout", options.Timeout, "")
	fs.IntVar(&options.Timeout, "to", options.Timeout, "")
	fs.IntVar(&options.IdleTimeout, "idle-timeout", options.IdleTimeout, "")
	fs.IntVar(&options.IdleTimeout, "it", options.IdleTimeout, "")
	fs.IntVar(&options.Delay, "delay", options.Delay, "")
	fs.IntVar(&options.Delay, "d", options.Delay, "")
	fs.IntVar(&width, "capture-width", 0, "")
	fs.IntVar(&width, "cw", 0, "")
	fs.IntVar(&height, "capture-height", 0, "")
	fs.IntVar(&height, "ch", 0, "")
	fs.StringVar(&options.UserAgent, "user-agent", "", "")
	fs.StringVar(&options.UserAgent, "ua", "", "")
	fs.BoolVar(&options.IgnoreCertificateErrors, "ignore-cert-err", options.IgnoreCertificateErrors, "")
	fs.BoolVar(&options.IgnoreCertificateErrors, "ice", options.IgnoreCertificateErrors, "")
	fs.BoolVar(&noFull, "no-full", false, "")
	fs.BoolVar(&noFull, "nf", false, "")
	fs.BoolVar(&noHeadless, "no-headless", false, "")
	fs.BoolVar(&noHeadless, "nh", false, "")
	fs.StringVar(&options.OutFolder, "outfolder", options.OutFolder, "")
	fs.StringVar(&options.OutFolder, "o", options.OutFolder, "")
	fs.BoolVar(&options.LabelImages, "label", false, "")
	fs.BoolVar(&options.LabelImages, "lb", false, "")
	fs.BoolVar(&options.Silence, "silence", false, "")
	fs.BoolVar(&options.Silence, "s", false, "")
	fs.BoolVar(&options.Verbose, "verbose", false, "")
	fs.BoolVar(&options.Verbose, "v", false, "")
	fs.BoolVar(&help, "help", false, "")
	fs.BoolVar(&help, "h", false, "")
	fs.BoolVar(&ver, "version", false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if help {
		fmt.Print(usage)
		os.Exit(0)
	}

	if ver {
		fmt.Println("verishot", version)
		os.Exit(0)
	}

	if profile != "" {
		switch profile {
		case "mobile":
			options.Profile = verishot.MobileProfile()
		case "desktop":
			options.Profile = verishot.DesktopProfile()
		default:
			return nil, fmt.Errorf("unknown profile %q (want mobile or desktop)", profile)
		}
	}
	if width > 0 {
		options.Profile.Width = width
	}
	if height > 0 {
		options.Profile.Height = height
	}
	if noFull {
		options.CaptureFull = false
	}
	if noHeadless {
		options.Headless = false
	}

	c.routes = fs.Args()
	return c, nil
}

func readRoutes(c *cli) []string {
	if hasStdin() {
		var routes []string
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			route := strings.TrimSpace(scanner.Text())
			if route == "" {
				continue
			}
			routes = append(routes, route)
		}
		if err := scanner.Err(); err != nil {
			log.Fatalf("Error reading stdin: %v", err)
		}
		return routes
	}

	if c.infile != "" {
		routes, err := readLines(c.infile)
		if err != nil {
			log.Fatalf("Error reading %s: %v", c.infile, err)
		}
		return routes
	}

	return nil
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	return lines, scanner.Err()
}

func hasStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	mode := stat.Mode()

	isPipedFromChrDev := (mode & os.ModeCharDevice) == 0
	isPipedFromFIFO := (mode & os.ModeNamedPipe) != 0

	return isPipedFromChrDev || isPipedFromFIFO
}
