package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	"github.com/mrperry/sharad"
	"github.com/mrperry/sharad/search"
)

// runMetadata is the run metadata record SPEC_FULL.md's data model adds
// alongside the output array, persisted as the observation's summary.json
// sidecar.
type runMetadata struct {
	ObservationID string    `json:"observationId"`
	Mode          string    `json:"mode"`
	ChirpMode     string    `json:"chirpMode"`
	Beta          float64   `json:"beta"`
	PresumProc    int       `json:"presumProc"`
	F             int       `json:"f"`
	Columns       int       `json:"columns"`
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
	PRFCode       uint16    `json:"prfCode"`
	PRFHz         float64   `json:"prfHz"`
}

// processObservation runs one SHARAD EDR observation -- identified by its
// PDS label -- through the full C1-C10 pipeline and writes the resulting
// EDR and auxiliary TileDB arrays, mirroring the teacher's convert_gsf.
func processObservation(labelURI, configURI, calibURI, outdirURI string, chirpMode sharad.ChirpMode, beta float64, presum int, filterType string, allowDynamic bool) error {
	startedAt := time.Now()

	if filterType == "inverse" {
		return sharad.ErrUnsupportedFilterType
	}

	config, err := loadConfig(configURI)
	if err != nil {
		return err
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return err
	}
	defer ctx.Free()

	log.Println("Reading label:", labelURI)
	label, err := sharad.ReadLabel(ctx, configURI, labelURI)
	if err != nil {
		return err
	}

	mode, err := sharad.LookupMode(label.ModeCode)
	if err != nil {
		return err
	}

	dir := filepath.Dir(labelURI)
	if outdirURI == "" {
		outdirURI = dir
	}

	log.Println("Opening science stream:", label.ScienceFile)
	scienceFile, err := sharad.OpenObservationFile(filepath.Join(dir, label.ScienceFile), configURI, false)
	if err != nil {
		return err
	}
	defer scienceFile.Close()

	log.Println("Reading auxiliary table:", label.AuxiliaryFile)
	auxFile, err := sharad.OpenObservationFile(filepath.Join(dir, label.AuxiliaryFile), configURI, true)
	if err != nil {
		return err
	}
	defer auxFile.Close()

	auxBytes, err := auxFile.ReadAll()
	if err != nil {
		return err
	}

	auxRecords, err := sharad.DecodeAuxiliaryTable(auxBytes)
	if err != nil {
		return err
	}
	nrec := len(auxRecords)

	bank := sharad.NewVFSCalibrationBank(ctx, calibURI)
	chirps := sharad.NewChirpProvider(bank)

	cfg := sharad.PresumConfig{
		Mode:                      mode,
		ChirpModeValue:            chirpMode,
		ProcessingPresum:          presum,
		AllowDynamicDecompression: allowDynamic,
		ApplyWindow:               beta > 0,
		WindowBeta:                beta,
	}

	l, err := sharad.ChirpLength(chirpMode)
	if err != nil {
		return err
	}

	splitter := sharad.NewRecordSplitter(scienceFile, mode)
	driver := sharad.NewPresumDriver(splitter, auxRecords, chirps, cfg)

	f := presumColumnFactor(presum, mode)
	ncols := (nrec + f - 1) / f

	groupURI := filepath.Join(outdirURI, label.ProductID+".tiledb")

	log.Println("Writing EDR array:", groupURI)
	sink, err := sharad.NewTileDBColumnSink(ctx, filepath.Join(groupURI, "EDR"), uint64(l), uint64(ncols))
	if err != nil {
		return err
	}

	if err := driver.Run(nrec, sink); err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}

	log.Println("Writing auxiliary array:", groupURI)
	if err := sharad.WriteAuxiliaryArray(ctx, filepath.Join(groupURI, "Auxiliary"), auxRecords); err != nil {
		return err
	}

	summary := runMetadata{
		ObservationID: label.ProductID,
		Mode:          mode.Code,
		ChirpMode:     string(chirpMode),
		Beta:          beta,
		PresumProc:    presum,
		F:             f,
		Columns:       ncols,
		StartedAt:     startedAt,
		FinishedAt:    time.Now(),
		PRFCode:       label.PRFCode,
		PRFHz:         sharad.PRFHz(label.PRFCode),
	}
	if _, err := sharad.WriteJSON(filepath.Join(groupURI, "summary.json"), configURI, summary); err != nil {
		return err
	}

	log.Println("Finished observation:", label.ProductID)

	return nil
}

// presumColumnFactor mirrors presum.go's unexported presumFactor without
// logging a second warning here; the driver itself will warn once.
func presumColumnFactor(p int, mode sharad.Mode) int {
	f := p / int(mode.PresumN)
	if f < 1 {
		return 1
	}
	return f
}

func loadConfig(configURI string) (*tiledb.Config, error) {
	if configURI == "" {
		return tiledb.NewConfig()
	}
	return tiledb.LoadConfig(configURI)
}

// processTrawl discovers every *.LBL observation under uri and fans them
// out over a fixed worker pool (2 * NumCPU), matching the teacher's
// convert_gsf_list.
func processTrawl(uri, configURI, calibURI, outdirURI string, chirpMode sharad.ChirpMode, beta float64, presum int, filterType string, allowDynamic bool) error {
	log.Println("Searching uri:", uri)
	items, err := search.FindLabels(uri, configURI)
	if err != nil {
		return err
	}
	log.Println("Number of observations to process:", len(items))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for _, name := range items {
		labelURI := name
		pool.Submit(func() {
			if err := processObservation(labelURI, configURI, calibURI, outdirURI, chirpMode, beta, presum, filterType, allowDynamic); err != nil {
				log.Println("error processing", labelURI, ":", err)
			}
		})
	}

	return nil
}

func main() {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name: "process",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "label-uri", Usage: "URI or pathname to a .LBL label file."},
					&cli.StringFlag{Name: "config-uri", Usage: "URI or pathname to a TileDB config file."},
					&cli.StringFlag{Name: "calib-uri", Usage: "URI or pathname to the calibration chirp bank directory."},
					&cli.StringFlag{Name: "outdir-uri", Usage: "URI or pathname to an output directory."},
					&cli.StringFlag{Name: "chirp", Value: "ideal", Usage: "Chirp mode: ideal, upb, ref, or vibro."},
					&cli.Float64Flag{Name: "beta", Value: 0, Usage: "Kaiser window beta. 0 disables windowing."},
					&cli.IntFlag{Name: "presum", Value: 1, Usage: "Requested on-ground processing presum, P."},
					&cli.StringFlag{Name: "filter-type", Value: "matched", Usage: "Range compression filter: matched or inverse (unimplemented)."},
					&cli.BoolFlag{Name: "dynamic-decompression", Usage: "Allow the dynamic (SDI-based) decompression branch."},
				},
				Action: func(cCtx *cli.Context) error {
					return processObservation(
						cCtx.String("label-uri"),
						cCtx.String("config-uri"),
						cCtx.String("calib-uri"),
						cCtx.String("outdir-uri"),
						sharad.ChirpMode(cCtx.String("chirp")),
						cCtx.Float64("beta"),
						cCtx.Int("presum"),
						cCtx.String("filter-type"),
						cCtx.Bool("dynamic-decompression"),
					)
				},
			},
			{
				Name: "process-trawl",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uri", Usage: "URI or pathname to a directory containing .LBL observations."},
					&cli.StringFlag{Name: "config-uri", Usage: "URI or pathname to a TileDB config file."},
					&cli.StringFlag{Name: "calib-uri", Usage: "URI or pathname to the calibration chirp bank directory."},
					&cli.StringFlag{Name: "outdir-uri", Usage: "URI or pathname to an output directory."},
					&cli.StringFlag{Name: "chirp", Value: "ideal", Usage: "Chirp mode: ideal, upb, ref, or vibro."},
					&cli.Float64Flag{Name: "beta", Value: 0, Usage: "Kaiser window beta. 0 disables windowing."},
					&cli.IntFlag{Name: "presum", Value: 1, Usage: "Requested on-ground processing presum, P."},
					&cli.StringFlag{Name: "filter-type", Value: "matched", Usage: "Range compression filter: matched or inverse (unimplemented)."},
					&cli.BoolFlag{Name: "dynamic-decompression", Usage: "Allow the dynamic (SDI-based) decompression branch."},
				},
				Action: func(cCtx *cli.Context) error {
					return processTrawl(
						cCtx.String("uri"),
						cCtx.String("config-uri"),
						cCtx.String("calib-uri"),
						cCtx.String("outdir-uri"),
						sharad.ChirpMode(cCtx.String("chirp")),
						cCtx.Float64("beta"),
						cCtx.Int("presum"),
						cCtx.String("filter-type"),
						cCtx.Bool("dynamic-decompression"),
					)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
