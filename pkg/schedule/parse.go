package schedule

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrUnsupportedFormat is wrapped by ParseFile when the filename extension
// is not one of the accepted schedule formats.
var ErrUnsupportedFormat = fmt.Errorf("schedule: unsupported file format")

// ParseFile parses a bulk schedule file into observation requests based on
// the filename extension. CSV and ECSV files carry a header row naming the
// columns; .sch and .txt files are line oriented with key=value tokens.
// Every parsed request is normalised and validated before it is returned.
func ParseFile(name string, r io.Reader) ([]Request, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return parseCSV(r, false)
	case ".ecsv":
		return parseCSV(r, true)
	case ".sch", ".txt":
		return parseSch(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

func parseCSV(r io.Reader, skipComments bool) ([]Request, error) {
	input := r
	if skipComments {
		stripped, err := stripCommentLines(r)
		if err != nil {
			return nil, err
		}
		input = stripped
	}

	reader := csv.NewReader(input)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("schedule: empty schedule file")
	}
	if err != nil {
		return nil, fmt.Errorf("schedule: read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, column := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(column))
	}

	var requests []Request
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("schedule: line %d: %w", line, err)
		}

		fields := make(map[string]string, len(columns))
		for i, value := range record {
			if i >= len(columns) {
				break
			}
			fields[columns[i]] = strings.TrimSpace(value)
		}

		request, err := requestFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("schedule: line %d: %w", line, err)
		}
		requests = append(requests, request)
	}

	if len(requests) == 0 {
		return nil, fmt.Errorf("schedule: no observations found")
	}
	return requests, nil
}

// parseSch handles the observatory's .sch convention, which .txt uploads
// share: one observation per line, whitespace-separated key=value tokens,
// blank lines and '#' comments ignored.
func parseSch(r io.Reader) ([]Request, error) {
	scanner := bufio.NewScanner(r)

	var requests []Request
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := make(map[string]string)
		for _, token := range strings.Fields(text) {
			key, value, ok := strings.Cut(token, "=")
			if !ok {
				return nil, fmt.Errorf("schedule: line %d: token %q is not key=value", line, token)
			}
			fields[strings.ToLower(key)] = value
		}

		request, err := requestFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("schedule: line %d: %w", line, err)
		}
		requests = append(requests, request)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("schedule: read file: %w", err)
	}

	if len(requests) == 0 {
		return nil, fmt.Errorf("schedule: no observations found")
	}
	return requests, nil
}

func requestFromFields(fields map[string]string) (Request, error) {
	request := Request{
		TargetName:      fields["target_name"],
		RA:              fields["ra"],
		Dec:             fields["dec"],
		ObservationType: fields["observation_type"],
		Filters:         fields["filters"],
		Priority:        fields["priority"],
		Cadence:         fields["cadence"],
		UTCStartTime:    fields["utc_start_time"],
		UTCStartDate:    fields["utc_start_date"],
		UTCEndTime:      fields["utc_end_time"],
		UTCEndDate:      fields["utc_end_date"],
		LSTStartTime:    fields["lst_start_time"],
		LSTStartDate:    fields["lst_start_date"],
		LSTEndTime:      fields["lst_end_time"],
		LSTEndDate:      fields["lst_end_date"],
	}

	var err error
	if request.NExp, err = optionalInt(fields, "nexp"); err != nil {
		return Request{}, err
	}
	if request.ExposureTime, err = optionalInt(fields, "exposure_time"); err != nil {
		return Request{}, err
	}
	if raw, ok := fields["reposition"]; ok && raw != "" {
		request.Reposition, err = strconv.ParseBool(raw)
		if err != nil {
			return Request{}, fmt.Errorf("reposition %q is not a boolean", raw)
		}
	}
	if request.RepositionX, err = optionalInt(fields, "reposition_x"); err != nil {
		return Request{}, err
	}
	if request.RepositionY, err = optionalInt(fields, "reposition_y"); err != nil {
		return Request{}, err
	}

	request.Normalize()
	if err := request.Validate(); err != nil {
		return Request{}, err
	}
	return request, nil
}

func optionalInt(fields map[string]string, key string) (int, error) {
	raw, ok := fields[key]
	if !ok || raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", key, raw)
	}
	return value, nil
}

// stripCommentLines buffers r with '#'-prefixed lines removed, which is how
// ECSV embeds its YAML metadata header above the CSV body. Uploads are size
// capped before they reach the parser, so buffering is bounded.
func stripCommentLines(r io.Reader) (io.Reader, error) {
	var buf bytes.Buffer
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("schedule: read file: %w", err)
	}
	return &buf, nil
}
