// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command example reads an MLX90614 every second.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/GermanBionicSystems/irdevices/common"
	"github.com/GermanBionicSystems/irdevices/mlx90614"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func main() {
	bus := flag.String("bus", "", "I²C bus name")
	sclName := flag.String("scl", "GPIO3", "pin muxed with SCL")
	sdaName := flag.String("sda", "GPIO2", "pin muxed with SDA")
	addr := flag.Uint("addr", uint(mlx90614.DefaultAddress), "7 bit device address")
	configure := flag.Bool("configure", false, "write the default configuration to EEPROM")
	n := flag.Int("n", 10, "number of samples, 0 runs forever")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := logrus.InfoLevel
	if *verbose {
		level = logrus.DebugLevel
	}
	l := common.NewLogger("mlx90614", level)
	if err := run(l, *bus, *sclName, *sdaName, uint8(*addr), *configure, *n); err != nil {
		l.WithError(err).Error("failed")
		os.Exit(1)
	}
}

func run(l *logrus.Entry, bus, sclName, sdaName string, addr uint8, configure bool, n int) error {
	if _, err := host.Init(); err != nil {
		return err
	}
	b, err := i2creg.Open(bus)
	if err != nil {
		return err
	}
	defer b.Close()

	scl := gpioreg.ByName(sclName)
	if scl == nil {
		return fmt.Errorf("pin %q not found", sclName)
	}
	sda := gpioreg.ByName(sdaName)
	if sda == nil {
		return fmt.Errorf("pin %q not found", sdaName)
	}

	o := mlx90614.Opts{Addr: addr}
	if configure {
		o = mlx90614.DefaultOpts
		o.Addr = addr
	}
	d, err := mlx90614.NewI2C(b, scl, sda, l, &o)
	if err != nil {
		return err
	}
	defer d.Deinit()

	id, err := d.ID()
	if err != nil {
		return err
	}
	e, err := d.EmissivityCoefficient()
	if err != nil {
		return err
	}
	l.WithFields(logrus.Fields{
		"id":         fmt.Sprintf("%04x%04x%04x%04x", id[0], id[1], id[2], id[3]),
		"emissivity": e,
	}).Info(d.String())

	t := time.NewTicker(time.Second)
	defer t.Stop()
	for i := 0; n == 0 || i < n; i++ {
		_, amb, err := d.ReadAmbient()
		if err != nil {
			return err
		}
		_, obj, err := d.ReadObject1()
		if err != nil {
			l.WithError(err).Warn("object read")
		} else {
			l.WithFields(logrus.Fields{"ambient": amb, "object": obj}).Info("sample")
		}
		<-t.C
	}
	return nil
}
