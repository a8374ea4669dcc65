/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package main

import "github.com/esatkurtul80/AuditPro-sub000/cmd"

func main() {
	cmd.Execute()
}
