// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/GermanBionicSystems/irdevices/mlx90614/mlx90614test"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"tinygo.org/x/drivers"
)

func TestI2CBus(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{regTa}, R: []byte{1, 2, 3}},
			{Addr: addr, W: []byte{0x0e, 4, 5, 6}},
		},
		DontPanic: true,
	}
	b := &I2CBus{Bus: pb}
	if err := b.Open(); err != nil {
		t.Fatal(err)
	}
	r := make([]byte, 3)
	if err := b.ReadReg(uint8(addr), regTa, r); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r, []byte{1, 2, 3}) {
		t.Errorf("read %#v", r)
	}
	if err := b.WriteReg(uint8(addr), 0x0e, []byte{4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	// A caller supplied bus is never closed.
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if b.Bus == nil {
		t.Error("caller's bus dropped")
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestI2CBusRecord(t *testing.T) {
	c := mlx90614test.New()
	rec := &i2ctest.Record{Bus: c}
	f := newFixture()
	_ = f.dev.Link(Capabilities{Log: f.log, Bus: &I2CBus{Bus: rec}, SCL: f.scl, SDA: f.sda, Delay: f.delays})
	if err := f.dev.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.dev.ID(); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 4 {
		t.Fatalf("recorded %d ops", len(rec.Ops))
	}
	for i, op := range rec.Ops {
		if op.Addr != addr || len(op.W) != 1 || op.W[0] != regID1+byte(i) || len(op.R) != 3 {
			t.Errorf("op %d = %#v", i, op)
		}
	}
}

func TestI2CBusNotOpen(t *testing.T) {
	b := &I2CBus{Name: "unused"}
	if err := b.ReadReg(1, 2, make([]byte, 3)); !errors.Is(err, errNoBus) {
		t.Errorf("ReadReg() = %v", err)
	}
	if err := b.WriteReg(1, 2, nil); !errors.Is(err, errNoBus) {
		t.Errorf("WriteReg() = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if s := b.String(); s != "unused" {
		t.Errorf("String() = %q", s)
	}
}

func TestI2CBusNil(t *testing.T) {
	var b *I2CBus
	if err := b.Open(); !errors.Is(err, errNoBus) {
		t.Errorf("Open() = %v", err)
	}
	if err := b.ReadReg(1, 2, make([]byte, 3)); !errors.Is(err, errNoBus) {
		t.Errorf("ReadReg() = %v", err)
	}
	if err := b.WriteReg(1, 2, nil); !errors.Is(err, errNoBus) {
		t.Errorf("WriteReg() = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if s := b.String(); s != "i2c" {
		t.Errorf("String() = %q", s)
	}
}

// tinyBus is a drivers.I2C forwarding to a simulated chip, the way host
// side TinyGo tests fake the bus.
type tinyBus struct {
	c   *mlx90614test.Chip
	txs int
}

func (b *tinyBus) Tx(addr uint16, w, r []byte) error {
	b.txs++
	return b.c.Tx(addr, w, r)
}

var _ drivers.I2C = &tinyBus{}

func TestTinyGoBus(t *testing.T) {
	c := mlx90614test.New()
	tb := &tinyBus{c: c}
	dl := &delays{}
	d := New()
	_ = d.Link(Capabilities{Log: &testLog{}, Bus: TinyGoBus{I2C: tb}, SCL: c.SCL(), SDA: c.SDA(), Delay: dl})
	_ = d.SetAddr(DefaultAddress)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.SetMode(ModeTObj1TObj2); err != nil {
		t.Fatal(err)
	}
	m, err := d.Mode()
	if err != nil || m != ModeTObj1TObj2 {
		t.Errorf("Mode() = %d, %v", m, err)
	}
	if err := d.Deinit(); err != nil {
		t.Fatal(err)
	}
	// read, erase, write, read, sleep.
	if tb.txs != 5 {
		t.Errorf("%d transactions", tb.txs)
	}
	if err := (TinyGoBus{}).Open(); !errors.Is(err, errNoBus) {
		t.Errorf("Open() without bus = %v", err)
	}
}

func TestSleeper(t *testing.T) {
	start := time.Now()
	Sleeper{}.Delay(2 * time.Millisecond)
	if time.Since(start) < 2*time.Millisecond {
		t.Error("Delay returned early")
	}
}
