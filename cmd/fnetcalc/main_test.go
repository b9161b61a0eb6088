/*
 * main_test.go, part of gofnet.
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

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	fnet "github.com/rmera/gofnet"
	"github.com/rmera/gofnet/calc"
	v3 "github.com/rmera/gofnet/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fakeFortnet = "{ test -f " + calc.InputFile + " && test -f " + calc.DatasetFile + " && touch " + calc.OutputFile + "; }"

const waterTraj = `3
frame 1
O 0.0 0.0 0.0
H 0.757 0.586 0.0
H -0.757 0.586 0.0
3
frame 2
O 0.1 0.0 0.0
H 0.757 0.586 0.0
H -0.757 0.586 0.0
3
frame 3
O -0.1 0.0 0.0
H 0.757 0.586 0.0
H -0.757 0.586 0.0
`

//fakeStore predicts an energy of natoms+x0 Hartree, and forces equal
//to the coordinates, for each geometry written.
type fakeStore struct {
	mu      sync.Mutex
	written map[string][]*fnet.Geometry
	netstat *fnet.Netstat
}

func (S *fakeStore) WriteDataset(name string, geoms []*fnet.Geometry) error {
	S.mu.Lock()
	defer S.mu.Unlock()
	S.written[filepath.Dir(name)] = geoms
	return os.WriteFile(name, []byte("dataset"), 0644)
}

func (S *fakeStore) ReadOutput(name string) (*fnet.Output, error) {
	S.mu.Lock()
	defer S.mu.Unlock()
	if _, err := os.Stat(name); err != nil {
		return nil, err
	}
	out := &fnet.Output{Mode: "predict", NTargets: 1, HasForces: true}
	for _, g := range S.written[filepath.Dir(name)] {
		out.Datapoints = append(out.Datapoints, &fnet.OutputPoint{
			Predictions: []float64{float64(g.Atoms.Len()) + g.Coords.At(0, 0)},
			Forces:      []*v3.Matrix{g.Coords.Clone()},
		})
	}
	return out, nil
}

func (S *fakeStore) ReadNetstat(name string) (*fnet.Netstat, error) {
	if _, err := os.Stat(name); err != nil {
		return nil, err
	}
	if S.netstat == nil {
		return nil, errors.New("no network")
	}
	return S.netstat, nil
}

type fixture struct {
	store   *fakeStore
	dir     string
	netstat string
	geom    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		store: &fakeStore{
			written: make(map[string][]*fnet.Geometry),
			netstat: &fnet.Netstat{
				TargetType:    "global",
				AtomicNumbers: []int{8, 1},
				Topologies:    map[int][]int{1: {5, 5, 1}, 8: {5, 5, 1}},
				HasBPNN:       true,
				HasMapping:    true,
			},
		},
		dir:     filepath.Join(dir, "run"),
		netstat: filepath.Join(dir, "water.hdf5"),
		geom:    filepath.Join(dir, "water.xyz"),
	}
	require.NoError(t, os.WriteFile(f.netstat, nil, 0644))
	require.NoError(t, os.WriteFile(f.geom, []byte(waterTraj), 0644))
	return f
}

//run executes fnetcalc with args plus the flags for the fixture files.
func (f *fixture) run(args ...string) (string, error) {
	a := &app{store: f.store, logger: zap.NewNop()}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	args = append(args, "--netstat", f.netstat, "--dir", f.dir, "--command", fakeFortnet, "--env", filepath.Join(filepath.Dir(f.dir), ".env"))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPredictCmd(t *testing.T) {
	f := newFixture(t)
	out, err := f.run("predict", f.geom)
	require.NoError(t, err)
	assert.Contains(t, out, "81.63415350")
	assert.Contains(t, out, "84.35529195")
	assert.NotContains(t, out, "forces")

	out, err = f.run("predict", "--forces", "--label", "water", f.geom)
	require.NoError(t, err)
	assert.Contains(t, out, "forces (eV/A), frame 3")
	assert.Contains(t, out, "max force")
	_, err = os.Stat(filepath.Join(f.dir, "water.out"))
	assert.NoError(t, err)
}

func TestScanCmd(t *testing.T) {
	f := newFixture(t)
	plot := filepath.Join(filepath.Dir(f.dir), "profile.png")
	out, err := f.run("scan", f.geom, "--workers", "2", "--chunk", "1", "--plot", plot)
	require.NoError(t, err)
	assert.Contains(t, out, "min: 78.91301505 eV (frame 3)")
	assert.Contains(t, out, "max: 84.35529195 eV (frame 2)")
	info, err := os.Stat(plot)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	left, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestInputCmd(t *testing.T) {
	f := newFixture(t)
	out, err := f.run("input", "--forces", "--delta", "0.005", f.geom)
	require.NoError(t, err)
	assert.Contains(t, out, calc.InputFile)
	for _, name := range []string{calc.InputFile, calc.DatasetFile} {
		_, err := os.Stat(filepath.Join(f.dir, name))
		assert.NoError(t, err, name)
	}
	assert.Len(t, f.store.written[f.dir], 3)
	inp, err := os.ReadFile(filepath.Join(f.dir, calc.InputFile))
	require.NoError(t, err)
	assert.Contains(t, string(inp), "FiniteDifferences")
}

func TestInputCmdBadDelta(t *testing.T) {
	f := newFixture(t)
	for _, delta := range []string{"0", "-0.01"} {
		_, err := f.run("input", "--forces", "--delta="+delta, f.geom)
		assert.Error(t, err, delta)
	}
	_, err := os.Stat(filepath.Join(f.dir, calc.InputFile))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCheckCmd(t *testing.T) {
	f := newFixture(t)
	out, err := f.run("check", f.netstat)
	require.NoError(t, err)
	assert.Contains(t, out, "energies: yes")
	assert.Contains(t, out, "forces: yes")

	f.store.netstat.HasMapping = false
	out, err = f.run("check")
	require.NoError(t, err)
	assert.Contains(t, out, "forces: no")

	f.store.netstat.TargetType = "atomic"
	out, err = f.run("check")
	assert.Error(t, err)
	assert.Contains(t, out, "energies: no")
}

func TestConfigFile(t *testing.T) {
	f := newFixture(t)
	config := filepath.Join(filepath.Dir(f.dir), "fnetcalc.yaml")
	require.NoError(t, os.WriteFile(config, []byte("geometry: "+f.geom+"\nforces: true\n"), 0644))
	out, err := f.run("predict", "--config", config)
	require.NoError(t, err)
	assert.Contains(t, out, "max force")

	require.NoError(t, os.WriteFile(config, []byte("workers: -2\n"), 0644))
	_, err = f.run("scan", f.geom, "--config", config)
	assert.Error(t, err)

	_, err = f.run("predict", "--config", filepath.Join(filepath.Dir(f.dir), "none.yaml"))
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	f := newFixture(t)
	_, err := f.run("predict")
	assert.Error(t, err)

	_, err = f.run("predict", filepath.Join(filepath.Dir(f.dir), "missing.xyz"))
	assert.Error(t, err)

	f.netstat = filepath.Join(filepath.Dir(f.dir), "missing.hdf5")
	_, err = f.run("predict", f.geom)
	assert.Error(t, err)
}
