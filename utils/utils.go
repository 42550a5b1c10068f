package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Commands understood on the command line
var Commands = []string{"rate", "list"}

// ParseArguments converts command-line arguments into a map of flags and values.
// argv excludes the program name. The command defaults to "rate".
func ParseArguments(argv []string) map[string]string {
	args := make(map[string]string)

	// First, identify the command
	commandIndex := -1
	for i, a := range argv {
		if isCommand(a) {
			args["command"] = a
			commandIndex = i
			break
		}
	}
	if _, ok := args["command"]; !ok {
		args["command"] = "rate"
	}

	for i := 0; i < len(argv); i++ {
		if i == commandIndex {
			continue
		}

		arg := argv[i]

		if arg == "-h" || arg == "--help" || arg == "help" {
			args["help"] = "true"
			continue
		}

		// Handle flags with equals sign (--key=value)
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			flagName := strings.TrimPrefix(parts[0], "--")
			args[flagName] = parts[1]
			continue
		}

		// Handle flags without equals sign (--key value)
		if strings.HasPrefix(arg, "--") {
			flagName := strings.TrimPrefix(arg, "--")

			// Check if this is a boolean flag (no value)
			if i+1 >= len(argv) || strings.HasPrefix(argv[i+1], "--") || isCommand(argv[i+1]) {
				args[flagName] = "true"
			} else {
				args[flagName] = argv[i+1]
				i++
			}
			continue
		}

		// Anything else is unexpected; remember the first one for the usage error
		if _, seen := args["unexpected"]; !seen {
			args["unexpected"] = arg
		}
	}

	return args
}

func isCommand(s string) bool {
	for _, c := range Commands {
		if s == c {
			return true
		}
	}
	return false
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s [rate] [--config=PATH] [--dir=PATH] [--ratings=PATH] [--database=PATH] [--presenter=viewer|window] [--seed=N] [--debug] [--logfile=PATH]\n", name)
	fmt.Fprintf(w, "  %s list [--config=PATH] [--ratings=PATH] [--database=PATH] [--top=N]\n", name)
	fmt.Fprintf(w, "\nParameters:\n")
	fmt.Fprintf(w, "  --config     : YAML file with configuration values (environment overrides it)\n")
	fmt.Fprintf(w, "  --dir        : Directory searched for images (default: .)\n")
	fmt.Fprintf(w, "  --ratings    : Ratings CSV file (default: ratings.csv)\n")
	fmt.Fprintf(w, "  --database   : Keep ratings and match history in this SQLite file instead of the CSV\n")
	fmt.Fprintf(w, "  --presenter  : viewer launches $VIEWER (default sxiv), window opens an OpenCV window\n")
	fmt.Fprintf(w, "  --seed       : Seed for pair selection (default: time based)\n")
	fmt.Fprintf(w, "  --top        : Only list the N best rated images\n")
	fmt.Fprintf(w, "  --debug      : Enable debug mode (logs detailed information)\n")
	fmt.Fprintf(w, "  --logfile    : Specify custom log file path (default: imagerank.log)\n")
	fmt.Fprintf(w, "\nEnvironment:\n")
	fmt.Fprintf(w, "  K (default 40), MIN_SCORE (default 1100), IMAGE_DIR, IMAGE_EXTENSIONS, RECURSIVE,\n")
	fmt.Fprintf(w, "  RATINGS_FILE, DATABASE, HISTORY, METRICS_FILE, PRESENTER, VIEWER, VIEWER_ARGS,\n")
	fmt.Fprintf(w, "  WINDOW_HEIGHT, SEED, NO_COLOR. A .env file in the working directory is read first.\n")
	fmt.Fprintf(w, "\nKeys while rating: l or a (left wins), r (right wins), d (draw), q (quit)\n")
}

// ParsePositiveInt parses a flag value that must be a positive integer
func ParsePositiveInt(name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid --%s value %q: must be a positive integer", name, value)
	}
	return n, nil
}

// renameFunc is swapped in tests to simulate a failing rename
var renameFunc = os.Rename

// WriteFileAtomic replaces path with data through a temp file in the same
// directory followed by a rename, so readers never observe a half-written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := renameFunc(tmpName, path); err != nil {
		return err
	}

	// Directory fsync is best effort
	if runtime.GOOS != "windows" {
		if d, err := os.Open(dir); err == nil {
			_ = d.Sync()
			d.Close()
		}
	}
	return nil
}
