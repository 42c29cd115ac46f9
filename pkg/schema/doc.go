// Package schema loads declarative form definitions from JSON or YAML files.
//
// A schema file declares one or more forms keyed by id. Each form lists its
// fields in order, with label/control/wrapper settings, dependent fields and a
// rule list that is turned into validators by a RuleFactory. Forms may carry
// an initial data record.
//
//	forms:
//	  contact:
//	    title: Contact
//	    fields:
//	      - name: email
//	        label: { text: "Email *" }
//	        rules:
//	          - { kind: required, message: Field required }
//	          - { kind: email, message: Invalid email }
//	        dependents: [confirmEmail]
//	    data:
//	      email: ""
//
// Loading is fail-fast: unknown rule kinds, bad patterns, unknown field types
// and broken dependent references are reported with the file and form that
// declared them.
package schema
