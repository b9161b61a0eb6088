/*
 * batch.go, part of gofnet.
 *
 *
 * Copyright 2021 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * gofnet is developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package calc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	fnet "github.com/rmera/gofnet"
	v3 "github.com/rmera/gofnet/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//Predict runs a single Fortnet prediction with h for all the geometries geoms, and
//returns one result per geometry, in the same order.
func Predict(ctx context.Context, h Handle, geoms []*fnet.Geometry, Q *Calc) ([]Result, error) {
	if err := h.BuildInput(geoms, Q); err != nil {
		return nil, errDecorate(err, "Predict")
	}
	if err := h.Run(ctx); err != nil {
		return nil, errDecorate(err, "Predict")
	}
	e, err := h.Energies()
	if err != nil {
		return nil, errDecorate(err, "Predict")
	}
	var f []*v3.Matrix
	if Q.Forces {
		f, err = h.AllForces()
		if err != nil {
			return nil, errDecorate(err, "Predict")
		}
	}
	ret := make([]Result, len(e))
	for i := range e {
		ret[i].Energy = e[i]
		if f != nil {
			ret[i].Forces = f[i]
		}
	}
	return ret, nil
}

//ParallelOptions control how PredictParallel distributes the work.
type ParallelOptions struct {
	Workers    int    //concurrent Fortnet processes. Half the CPUs if 0.
	Chunk      int    //geometries per Fortnet run. All geometries split evenly among the workers if 0.
	ScratchDir string //where the working directories are created. os.TempDir() if empty.
	Keep       bool   //don't remove the working directories.
	Command    string //Fortnet command. The handle default if empty.
	Logger     *zap.Logger
}

func (P *ParallelOptions) workers() int {
	if P.Workers > 0 {
		return P.Workers
	}
	w := runtime.NumCPU() / 2
	if w < 1 {
		w = 1
	}
	return w
}

func (P *ParallelOptions) chunk(n, workers int) int {
	if P.Chunk > 0 {
		return P.Chunk
	}
	c := n / workers
	if n%workers != 0 {
		c++
	}
	if c < 1 {
		c = 1
	}
	return c
}

//PredictParallel splits geoms in chunks and runs one Fortnet prediction per chunk, each in
//its own working directory, with up to opts.Workers runs at the same time. The results are
//returned in the order of geoms. The first failure cancels the remaining runs.
func PredictParallel(ctx context.Context, store Store, geoms []*fnet.Geometry, Q *Calc, opts ParallelOptions) ([]Result, error) {
	if len(geoms) == 0 {
		return nil, Error{ErrCantInput, Fortnet, "", "no geometries given", []string{"PredictParallel"}, true}
	}
	if Q == nil {
		return nil, Error{ErrBadOptions, Fortnet, "", "nil options", []string{"PredictParallel"}, true}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	//Each handle changes to its own directory, so the netstat path must not be relative.
	q := *Q
	ns, err := filepath.Abs(Q.NetstatFile())
	if err != nil {
		return nil, Error{ErrNoNetstat, Fortnet, "", err.Error(), []string{"filepath.Abs", "PredictParallel"}, true}
	}
	q.Netstat = ns
	scratch := opts.ScratchDir
	if scratch == "" {
		scratch = os.TempDir()
	}
	workers := opts.workers()
	chunk := opts.chunk(len(geoms), workers)
	results := make([]Result, len(geoms))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	logger.Info("parallel prediction",
		zap.Int("geometries", len(geoms)),
		zap.Int("workers", workers),
		zap.Int("chunk", chunk))
	for start := 0; start < len(geoms); start += chunk {
		start := start
		end := start + chunk
		if end > len(geoms) {
			end = len(geoms)
		}
		g.Go(func() error {
			id := uuid.New().String()
			dir := filepath.Join(scratch, "fnet-"+id)
			if !opts.Keep {
				defer os.RemoveAll(dir)
			}
			h := NewFortnetHandle(store)
			h.SetDir(dir)
			h.SetName(fmt.Sprintf("%s-%d", DefaultLabel, start))
			if opts.Command != "" {
				h.SetCommand(opts.Command)
			}
			h.SetLogger(logger.With(zap.String("run", id)))
			r, err := Predict(ctx, h, geoms[start:end], &q)
			if err != nil {
				return fmt.Errorf("geometries %d to %d: %w", start+1, end, err)
			}
			copy(results[start:end], r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
