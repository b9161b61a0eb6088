/*
 * cfg.go, part of gofnet.
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

//Package cfg reads the configuration of fnetcalc runs from YAML files, and
//the environment from .env files.
package cfg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rmera/gofnet/calc"
	"gopkg.in/yaml.v3"
)

//DefaultFile is the configuration file read when none is given.
const DefaultFile = "fnetcalc.yaml"

//DefaultEnvFile is the environment file read when none is given.
const DefaultEnvFile = ".env"

//Cfg is a structure containing the parameters specified in the configuration
//file. It can be instanced through New or by hand. If it is instanced by hand,
//please use the Check method to check if the Cfg meets the requirements.
type Cfg struct {
	//Netstat is the Fortnet network status file with the trained network
	Netstat string `yaml:"netstat"`

	//Command is the command that runs Fortnet. If empty, the FORTNET_COMMAND
	//environment variable, or "fnet", is used
	Command string `yaml:"command"`

	//Label is the name of the calculation, used for the Fortnet output file
	Label string `yaml:"label"`

	//Dir is the directory where Fortnet is run
	Dir string `yaml:"dir"`

	//Forces specifies if forces are calculated
	Forces bool `yaml:"forces"`

	//FiniteDiffDelta is the coordinate shift, in Angstrom, for the finite
	//differences used to obtain forces. 0 means the Fortnet default
	FiniteDiffDelta float64 `yaml:"finiteDiffDelta"`

	//Geometry is the XYZ file (possibly compressed) with the system
	Geometry string `yaml:"geometry"`

	//Plot is the file where the energy profile of a scan is saved. No plot
	//is made if empty
	Plot string `yaml:"plot"`

	//Workers is the number of Fortnet runs at the same time in a scan. 0
	//means half the available CPUs
	Workers int `yaml:"workers"`

	//Chunk is the number of geometries per Fortnet run in a scan. 0 means
	//that the geometries are split evenly among the workers
	Chunk int `yaml:"chunk"`

	//Keep specifies if the working directories of a scan are kept
	Keep bool `yaml:"keep"`
}

//Default returns a configuration with the default values.
func Default() *Cfg {
	return &Cfg{Netstat: calc.DefaultNetstat, Label: calc.DefaultLabel}
}

//New opens and decodes the specified configuration file. The file must be
//a YAML file. Fields not present in the file keep their default values. This
//method automatically calls the Check method to check the integrity of Cfg.
func New(path string) (*Cfg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := Default()
	r := bufio.NewReader(f)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err = dec.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	err = c.Check()
	if err != nil {
		return nil, fmt.Errorf("Check: %w", err)
	}

	return c, nil
}

//Check checks if Cfg is correct. It returns an error if a field doesn't meet
//the requirements.
func (c *Cfg) Check() error {
	if c.Netstat == "" {
		return fmt.Errorf("netstat cannot be empty")
	}

	if c.FiniteDiffDelta < 0 {
		return fmt.Errorf("finiteDiffDelta cannot be lower than 0")
	}

	if c.Workers < 0 || c.Chunk < 0 {
		return fmt.Errorf("workers or chunk cannot be lower than 0")
	}

	return nil
}

//Calc returns the calculation options given by the configuration.
func (c *Cfg) Calc() *calc.Calc {
	return &calc.Calc{Netstat: c.Netstat, FiniteDiffDelta: c.FiniteDiffDelta, Forces: c.Forces}
}

//Parallel returns the options for parallel predictions given by the configuration.
func (c *Cfg) Parallel() calc.ParallelOptions {
	return calc.ParallelOptions{Workers: c.Workers, Chunk: c.Chunk, ScratchDir: c.Dir, Keep: c.Keep, Command: c.Command}
}

//LoadEnv sets the environment variables in the .env file path, without
//overriding those already set. A missing file is not an error.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
