// Package scenario loads YAML scenario files: a template descriptor, the
// data it renders against, and a list of mutation steps.
//
//	name: todo
//	template:
//	  tag: ul
//	  children:
//	    - list: items
//	      sort: title
//	      item:
//	        tag: li
//	        children:
//	          - bind: title
//	            format: upper
//	data:
//	  items:
//	    - title: b
//	    - title: a
//	steps:
//	  - op: add
//	    path: items
//	    value: {title: c}
//
// Mappings become observable objects, sequences become observable
// sequences and a mapping with the single key "$map" becomes an observable
// map. Steps mutate that data through the observable API, so a Runner
// exercises exactly the incremental update paths an application would.
package scenario
