// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/google/gops/agent"

	"github.com/volatixdb/volatix/internal/adminhttp"
	"github.com/volatixdb/volatix/internal/dispatch"
	"github.com/volatixdb/volatix/internal/keyspace"
	"github.com/volatixdb/volatix/internal/runtimeEnv"
	"github.com/volatixdb/volatix/internal/scheduler"
	"github.com/volatixdb/volatix/pkg/log"
)

func main() {
	cfg := cliParse()
	log.SetLogDateTime(cfg.LogDate)

	if err := runtimeEnv.LoadDotEnv(cfg.DotEnvPath); err != nil {
		log.Fatalf("loading %s failed: %s", cfg.DotEnvPath, err.Error())
	}

	// See https://github.com/google/gops (runtime overhead is almost zero)
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatalf("gops/agent.Listen failed: %s", err.Error())
		}
	}

	ks := keyspace.New(cfg.Keyspace)
	if err := ks.Load(cfg.SnapshotPath); err != nil {
		log.Fatalf("loading snapshot %s failed: %s", cfg.SnapshotPath, err.Error())
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("volatix-server listening at :%d...", cfg.Port)

	// The listener must be bound first (it may need a privileged port),
	// then the process can give up root.
	if err := runtimeEnv.DropPrivileges(cfg.User, cfg.Group); err != nil {
		log.Fatalf("error while changing user: %s", err.Error())
	}

	d := dispatch.New(ks)

	sched, err := scheduler.Start(ks, cfg.SnapshotPath, cfg.SnapshotInterval)
	if err != nil {
		log.Fatalf("starting scheduler failed: %s", err.Error())
	}

	admin, err := adminhttp.Start(cfg.AdminAddr, ks)
	if err != nil {
		log.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		serve(listener, d)
	}()

	wg.Add(1)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer wg.Done()
		<-sigs
		runtimeEnv.SystemdNotifiy(false, "shutting down")

		listener.Close()
		if err := sched.Shutdown(); err != nil {
			log.Errorf("scheduler shutdown: %s", err.Error())
		}
		if err := admin.Shutdown(context.Background()); err != nil {
			log.Errorf("adminhttp shutdown: %s", err.Error())
		}
		if err := ks.Save(cfg.SnapshotPath); err != nil {
			log.Errorf("final snapshot save failed: %s", err.Error())
		}
	}()

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(25)
	}
	runtimeEnv.SystemdNotifiy(true, "running")
	wg.Wait()
	log.Print("Gracefull shutdown completed!")
}
