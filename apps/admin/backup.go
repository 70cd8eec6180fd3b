package main

import "fmt"

func (cli *commandLine) createBackup() error {
	path, err := cli.bkpMgr.Create()
	if err != nil {
		return err
	}
	cli.logger.Info("backup created", map[string]interface{}{"path": path})
	return nil
}

func (cli *commandLine) listBackups() error {
	backups, err := cli.bkpMgr.List()
	if err != nil {
		return err
	}
	for _, b := range backups {
		cli.logger.Info(b.Name, map[string]interface{}{
			"size":    fmt.Sprintf("%.1f KB", float64(b.Size)/1024),
			"created": b.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return nil
}

func (cli *commandLine) restoreBackup(path string) error {
	if err := cli.bkpMgr.Restore(path); err != nil {
		return err
	}
	cli.logger.Info("store restored", map[string]interface{}{"from": path})
	return nil
}

func (cli *commandLine) pruneBackups(keep int) error {
	return cli.bkpMgr.Prune(keep)
}
