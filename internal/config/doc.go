// Package config loads the optional settings file that overrides the
// built-in output location, output format and scene defaults.
//
// Settings files may be written in HCL, TOML or YAML; the format is picked
// from the file extension. All three share one schema:
//
//	output = "out.txt"
//	format = "json"
//	scene {
//	  view    = [0, 0, 1]
//	  ambient = [50, 50, 50]
//	  color   = [0, 0, 0]
//	  step    = 20
//	  light {
//	    location = [0.5, 0.75, 1]
//	    color    = [0, 255, 255]
//	  }
//	  reflect {
//	    ambient  = [0.1, 0.1, 0.1]
//	    diffuse  = [0.5, 0.5, 0.5]
//	    specular = [0.5, 0.5, 0.5]
//	  }
//	}
package config
