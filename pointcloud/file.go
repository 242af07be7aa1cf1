package pointcloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// PCDType is the data encoding of a pcd file.
type PCDType int

const (
	// PCDAscii ascii format for pcd.
	PCDAscii PCDType = 0
	// PCDBinary binary format for pcd.
	PCDBinary PCDType = 1
)

// NewFrameFromFile returns a frame read in from the given file, dispatching
// on the file extension.
func NewFrameFromFile(fn string, logger golog.Logger) (*Frame, error) {
	switch filepath.Ext(fn) {
	case ".pcd":
		//nolint:gosec
		f, err := os.Open(fn)
		if err != nil {
			return nil, err
		}
		defer utils.UncheckedErrorFunc(f.Close)
		return NewFrameFromPCD(f, logger)
	case ".las":
		return NewFrameFromLASFile(fn, logger)
	default:
		return nil, errors.Errorf("do not know how to read file %q", fn)
	}
}

// NewFrameFromLASFile returns a frame from reading the positions in a LAS file.
func NewFrameFromLASFile(fn string, logger golog.Logger) (*Frame, error) {
	lf, err := lidario.NewLasFile(fn, "r")
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(lf.Close)

	points := make([]r3.Vector, 0, lf.Header.NumberPoints)
	for i := 0; i < lf.Header.NumberPoints; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, err
		}
		data := p.PointData()
		points = append(points, r3.Vector{X: data.X, Y: data.Y, Z: data.Z})
	}
	return FilterFinite(points, logger), nil
}

// WriteToLASFile writes the frame out to a LAS file.
func WriteToLASFile(frame *Frame, fn string) (err error) {
	lf, err := lidario.NewLasFile(fn, "w")
	if err != nil {
		return
	}
	defer func() {
		cerr := lf.Close()
		err = multierr.Combine(err, cerr)
	}()

	if err = lf.AddHeader(lidario.LasHeader{PointFormatID: 0}); err != nil {
		return
	}
	for i := 0; i < frame.Size(); i++ {
		p := frame.At(i)
		pr := &lidario.PointRecord0{
			X: p.X,
			Y: p.Y,
			Z: p.Z,
			BitField: lidario.PointBitField{
				Value: (1) | (1 << 3) | (0 << 6) | (0 << 7),
			},
			ClassBitField: lidario.ClassificationBitField{
				Value: 0,
			},
			PointSourceID: 1,
		}
		if err = lf.AddLasPoint(pr); err != nil {
			return
		}
	}
	return
}

// ToPCD writes the frame to the writer as a pcd with only x y z fields.
func ToPCD(frame *Frame, out io.Writer, outputType PCDType) error {
	_, err := fmt.Fprintf(out, "VERSION .7\n"+
		"FIELDS x y z\n"+
		"SIZE 4 4 4\n"+
		"TYPE F F F\n"+
		"COUNT 1 1 1\n"+
		"WIDTH %d\n"+
		"HEIGHT 1\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n",
		frame.Size(), frame.Size())
	if err != nil {
		return err
	}
	switch outputType {
	case PCDAscii:
		if _, err := fmt.Fprintf(out, "DATA ascii\n"); err != nil {
			return err
		}
		for i := 0; i < frame.Size(); i++ {
			p := frame.At(i)
			if _, err := fmt.Fprintf(out, "%f %f %f\n", p.X, p.Y, p.Z); err != nil {
				return err
			}
		}
	case PCDBinary:
		if _, err := fmt.Fprintf(out, "DATA binary\n"); err != nil {
			return err
		}
		buf := make([]byte, 12)
		for i := 0; i < frame.Size(); i++ {
			p := frame.At(i)
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(p.X)))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(p.Y)))
			binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(p.Z)))
			if _, err := out.Write(buf); err != nil {
				return err
			}
		}
	default:
		return errors.Errorf("unknown pcd type %d", outputType)
	}
	return nil
}

var pcdHeaderFields = []string{
	"VERSION", "FIELDS", "SIZE", "TYPE", "COUNT", "WIDTH", "HEIGHT", "VIEWPOINT", "POINTS", "DATA",
}

type pcdHeader struct {
	points uint64
	data   PCDType
}

func parsePCDHeaderLine(line string, index int, header *pcdHeader) error {
	name := pcdHeaderFields[index]
	field, value, _ := strings.Cut(line, " ")
	if field != name {
		return errors.Errorf("line is supposed to start with %s but is %q", name, line)
	}
	var err error
	switch name {
	case "VERSION":
		if value != ".7" && value != "0.7" {
			return errors.Errorf("unsupported pcd version %s", value)
		}
	case "FIELDS":
		if value != "x y z" {
			return errors.Errorf("unsupported pcd fields %q", value)
		}
	case "SIZE":
		if value != "4 4 4" {
			return errors.Errorf("unsupported pcd sizes %q", value)
		}
	case "TYPE":
		if value != "F F F" {
			return errors.Errorf("unsupported pcd types %q", value)
		}
	case "COUNT":
		if value != "1 1 1" {
			return errors.Errorf("unsupported pcd counts %q", value)
		}
	case "WIDTH", "HEIGHT", "VIEWPOINT":
		// only unstructured clouds are produced here; the total in POINTS
		// is authoritative on read
	case "POINTS":
		header.points, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errors.Errorf("invalid POINTS field %q", value)
		}
	case "DATA":
		switch value {
		case "ascii":
			header.data = PCDAscii
		case "binary":
			header.data = PCDBinary
		default:
			return errors.Errorf("unsupported pcd data encoding %q", value)
		}
	}
	return nil
}

// NewFrameFromPCD returns a frame from reading a pcd with x y z fields.
func NewFrameFromPCD(in io.Reader, logger golog.Logger) (*Frame, error) {
	reader := bufio.NewReader(in)
	var header pcdHeader
	headerLineCount := 0
	for headerLineCount < len(pcdHeaderFields) {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, errors.Wrap(err, "error reading pcd header")
		}
		line, _, _ = strings.Cut(line, "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := parsePCDHeaderLine(line, headerLineCount, &header); err != nil {
			return nil, err
		}
		headerLineCount++
	}
	points := make([]r3.Vector, 0, header.points)
	switch header.data {
	case PCDAscii:
		for i := uint64(0); i < header.points; i++ {
			line, err := reader.ReadString('\n')
			if err != nil && !(err == io.EOF && line != "") {
				return nil, errors.Wrapf(err, "error reading pcd point %d", i)
			}
			tokens := strings.Fields(line)
			if len(tokens) != 3 {
				return nil, errors.Errorf("expected 3 coordinates on line %q", line)
			}
			var coords [3]float64
			for j, token := range tokens {
				coords[j], err = strconv.ParseFloat(token, 64)
				if err != nil {
					return nil, errors.Wrapf(err, "invalid coordinate %q", token)
				}
			}
			points = append(points, r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]})
		}
	case PCDBinary:
		buf := make([]byte, 12)
		for i := uint64(0); i < header.points; i++ {
			if _, err := io.ReadFull(reader, buf); err != nil {
				return nil, errors.Wrapf(err, "error reading pcd point %d", i)
			}
			points = append(points, r3.Vector{
				X: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))),
				Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))),
				Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))),
			})
		}
	}
	return FilterFinite(points, logger), nil
}
