package resolve

import "sort"

// orderTables computes the emission order: for every foreign key from table
// A to table B, B appears before A. Self references never constrain order.
// Ties among unconstrained tables break by ascending logical name, so the
// order is a pure function of the resolved schema.
//
// A non-self cycle fails with ErrCyclicTableDependency naming every table
// still on the cycle; emission requires a total order, so cycles are
// reported, never silently broken.
func orderTables(tables map[string]*Table) ([]string, error) {
	indegree := make(map[string]int, len(tables))
	dependents := make(map[string][]string, len(tables))
	for name := range tables {
		indegree[name] = 0
	}
	for name, t := range tables {
		deps := make(map[string]bool)
		for _, fk := range t.ForeignKeys {
			if fk.SelfRef || fk.Ref.Name == name {
				continue
			}
			deps[fk.Ref.Name] = true
		}
		for dep := range deps {
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	ready := make([]string, 0, len(tables))
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(tables))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		released := dependents[name]
		sort.Strings(released)
		for _, dep := range released {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = insertSorted(ready, dep)
			}
		}
	}
	if len(order) != len(tables) {
		cyclic := make([]string, 0)
		for name, deg := range indegree {
			if deg > 0 {
				cyclic = append(cyclic, name)
			}
		}
		sort.Strings(cyclic)
		return nil, &CycleError{Tables: cyclic}
	}
	return order, nil
}

func insertSorted(names []string, name string) []string {
	i := sort.SearchStrings(names, name)
	names = append(names, "")
	copy(names[i+1:], names[i:])
	names[i] = name
	return names
}
