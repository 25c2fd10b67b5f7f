// Package config provides configuration parsing for mte projects.
//
// The configuration is stored in mte.json at the project root. This
// package handles loading, saving, and validating configuration. A missing
// file is not an error for LoadOrDefault; every field has a default.
//
// # Configuration File Structure
//
//	{
//	  "name": "demo",
//	  "strict": false,
//	  "logLevel": "info",
//	  "scenarios": "scenarios",
//	  "inspector": {
//	    "host": "localhost",
//	    "port": 7070,
//	    "replayInterval": "2s"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "mte"
//	  },
//	  "bench": {
//	    "iterations": 1000,
//	    "items": 100
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.InspectorAddress())
package config
